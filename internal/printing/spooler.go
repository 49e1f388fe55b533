package printing

import (
	"context"
	"log"
	"time"

	"github.com/quanpos/api/internal/domain"
	"github.com/quanpos/api/internal/enum"
	"github.com/quanpos/api/internal/receipt"
)

// KitchenJob is one dispatch batch routed to one preparation-station
// printer.
type KitchenJob struct {
	Printer domain.Printer
	Table   domain.Table
	Order   domain.Order
	Staff   string
	Batch   int32
	Entries []domain.DispatchEntry
}

// BillJob is a settled order routed to the billing printer.
type BillJob struct {
	Printer domain.Printer
	Table   domain.Table
	Order   domain.Order
	Staff   string
	Lines   []domain.Line
}

// TemplateSource resolves the active receipt template for one type and
// paper width. Satisfied by store.Repository.
type TemplateSource interface {
	GetActiveTemplate(ctx context.Context, typ, paperWidth string) (*domain.Template, error)
}

// Spooler runs the render -> encode -> transmit pipeline. Kitchen and
// bill jobs are fire-and-forget on their own goroutine so the dispatch
// transaction never waits on printer I/O; failures are logged and
// dropped.
type Spooler struct {
	templates TemplateSource
	images    receipt.ImageSource
	timeout   time.Duration

	// newTransport is swapped out by tests to capture payloads.
	newTransport func(domain.Printer) Transport
}

func NewSpooler(templates TemplateSource, images receipt.ImageSource, dialTimeout time.Duration) *Spooler {
	return &Spooler{
		templates: templates,
		images:    images,
		timeout:   dialTimeout,
		newTransport: func(p domain.Printer) Transport {
			return NewTransport(p, dialTimeout)
		},
	}
}

func (s *Spooler) PrintKitchen(job KitchenJob) {
	go s.runKitchen(job)
}

func (s *Spooler) PrintBill(job BillJob) {
	go s.runBill(job)
}

func (s *Spooler) runKitchen(job KitchenJob) {
	ctx, cancel := s.jobContext()
	defer cancel()

	tpl := s.template(ctx, enum.TemplateTypeKitchen, job.Printer.PaperWidth)
	doc := receipt.BuildKitchen(tpl, receipt.KitchenData{
		Order:   job.Order,
		Table:   job.Table,
		Entries: job.Entries,
		Batch:   job.Batch,
		Staff:   job.Staff,
		Now:     time.Now(),
		Images:  s.images,
	})
	s.transmit(ctx, job.Printer, doc)
}

func (s *Spooler) runBill(job BillJob) {
	ctx, cancel := s.jobContext()
	defer cancel()

	tpl := s.template(ctx, enum.TemplateTypeBill, job.Printer.PaperWidth)
	doc := receipt.BuildBill(tpl, receipt.BillData{
		Order:  job.Order,
		Table:  job.Table,
		Lines:  job.Lines,
		Staff:  job.Staff,
		Now:    time.Now(),
		Images: s.images,
	})
	s.transmit(ctx, job.Printer, doc)
}

// PrintSelfTest sends a plain-text test page synchronously and returns
// the transport result, so the call site can surface a toast.
func (s *Spooler) PrintSelfTest(ctx context.Context, p domain.Printer) error {
	payload := TextJob([]string{
		"** " + p.Name + " **",
		"Kiem tra may in",
		time.Now().Format("02/01/2006 15:04:05"),
	})
	return s.newTransport(p).Send(ctx, payload)
}

func (s *Spooler) jobContext() (context.Context, context.CancelFunc) {
	// Dial plus write, with headroom for rendering.
	return context.WithTimeout(context.Background(), s.timeout+10*time.Second)
}

func (s *Spooler) template(ctx context.Context, typ, paperWidth string) domain.Template {
	tpl, err := s.templates.GetActiveTemplate(ctx, typ, paperWidth)
	if err != nil {
		if typ == enum.TemplateTypeKitchen {
			return receipt.DefaultKitchen(paperWidth)
		}
		return receipt.DefaultBill(paperWidth)
	}
	return *tpl
}

func (s *Spooler) transmit(ctx context.Context, p domain.Printer, doc receipt.Document) {
	img := Render(doc, PixelWidth(p.PaperWidth))
	payload := ImageJob(img)
	if err := s.newTransport(p).Send(ctx, payload); err != nil {
		log.Printf("print to %s failed: %v", p.Name, err)
	}
}

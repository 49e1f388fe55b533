package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/quanpos/api/internal/domain"
	"github.com/quanpos/api/internal/enum"
	"github.com/quanpos/api/internal/store/memory"
)

type fakeTester struct {
	err    error
	tested []domain.Printer
}

func (f *fakeTester) PrintSelfTest(_ context.Context, p domain.Printer) error {
	f.tested = append(f.tested, p)
	return f.err
}

func printerRouter(t *testing.T) (chi.Router, *memory.Store, *fakeTester) {
	t.Helper()
	mem := memory.New()
	tester := &fakeTester{}
	r := chi.NewRouter()
	r.Route("/printers", NewPrinterHandler(mem, tester).RegisterRoutes)
	return r, mem, tester
}

func doJSON(t *testing.T, r chi.Router, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func validPrinterBody() map[string]any {
	return map[string]any{
		"name":        "Bep chinh",
		"kind":        enum.PrinterKindNetwork,
		"address":     "192.168.1.50",
		"paper_width": enum.PaperWidth58,
		"active":      true,
	}
}

func TestPrinterCreateAndList(t *testing.T) {
	r, _, _ := printerRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/printers/", validPrinterBody())
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", rec.Code, rec.Body)
	}
	var created printerResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatal(err)
	}
	if created.ID == uuid.Nil {
		t.Error("created printer has no ID")
	}

	rec = doJSON(t, r, http.MethodGet, "/printers/", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	var printers []printerResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &printers); err != nil {
		t.Fatal(err)
	}
	if len(printers) != 1 || printers[0].Name != "Bep chinh" {
		t.Errorf("printers = %+v, want the created one", printers)
	}
}

func TestPrinterCreateValidation(t *testing.T) {
	r, _, _ := printerRouter(t)

	cases := []struct {
		name  string
		mutate func(map[string]any)
	}{
		{"missing name", func(b map[string]any) { b["name"] = "" }},
		{"bad kind", func(b map[string]any) { b["kind"] = "BLUETOOTH" }},
		{"missing address", func(b map[string]any) { b["address"] = "" }},
		{"bad paper width", func(b map[string]any) { b["paper_width"] = "76" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			body := validPrinterBody()
			tc.mutate(body)
			if rec := doJSON(t, r, http.MethodPost, "/printers/", body); rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestPrinterUpdateAndDelete(t *testing.T) {
	r, mem, _ := printerRouter(t)

	p := domain.Printer{
		ID: uuid.New(), Name: "Bep", Kind: enum.PrinterKindNetwork,
		Address: "192.168.1.50", PaperWidth: enum.PaperWidth58, Active: true,
	}
	if err := mem.CreatePrinter(context.Background(), p); err != nil {
		t.Fatal(err)
	}

	body := validPrinterBody()
	body["name"] = "Bep tang 2"
	rec := doJSON(t, r, http.MethodPut, "/printers/"+p.ID.String(), body)
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d: %s", rec.Code, rec.Body)
	}
	got, err := mem.GetPrinter(context.Background(), p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "Bep tang 2" {
		t.Errorf("name = %q after update", got.Name)
	}

	if rec := doJSON(t, r, http.MethodDelete, "/printers/"+p.ID.String(), nil); rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}
	if _, err := mem.GetPrinter(context.Background(), p.ID); err == nil {
		t.Error("printer still present after delete")
	}

	if rec := doJSON(t, r, http.MethodPut, "/printers/"+uuid.NewString(), validPrinterBody()); rec.Code != http.StatusNotFound {
		t.Errorf("update unknown printer: status = %d, want 404", rec.Code)
	}
}

func TestPrinterSelfTestEndpoint(t *testing.T) {
	r, mem, tester := printerRouter(t)

	p := domain.Printer{
		ID: uuid.New(), Name: "Quay bar", Kind: enum.PrinterKindLocal,
		Address: "/dev/usb/lp0", PaperWidth: enum.PaperWidth58, Active: true,
	}
	if err := mem.CreatePrinter(context.Background(), p); err != nil {
		t.Fatal(err)
	}

	rec := doJSON(t, r, http.MethodPost, "/printers/"+p.ID.String()+"/test", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	if len(tester.tested) != 1 || tester.tested[0].ID != p.ID {
		t.Errorf("tested = %+v, want the stored printer", tester.tested)
	}

	tester.err = errors.New("dial tcp: connection refused")
	rec = doJSON(t, r, http.MethodPost, "/printers/"+p.ID.String()+"/test", nil)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
	var errResp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &errResp); err != nil {
		t.Fatal(err)
	}
	if errResp["error"] == "" {
		t.Error("error body missing")
	}

	if rec := doJSON(t, r, http.MethodPost, "/printers/"+uuid.NewString()+"/test", nil); rec.Code != http.StatusNotFound {
		t.Errorf("unknown printer: status = %d, want 404", rec.Code)
	}
}

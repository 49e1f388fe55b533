// Package seed provisions a demo venue: tables, printers, routing
// categories, a small Vietnamese menu and a bill template, so a fresh
// install is usable immediately.
package seed

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/quanpos/api/internal/domain"
	"github.com/quanpos/api/internal/enum"
	"github.com/quanpos/api/internal/store"
)

// Demo fills the repository with a demo venue. It is not idempotent;
// run it against an empty database only.
func Demo(ctx context.Context, repo store.Repository, put PutFuncs) error {
	kitchenPrinter := domain.Printer{
		ID:         uuid.New(),
		Name:       "Bep chinh",
		Kind:       enum.PrinterKindNetwork,
		Address:    "192.168.1.50",
		PaperWidth: enum.PaperWidth58,
		Active:     true,
	}
	barPrinter := domain.Printer{
		ID:         uuid.New(),
		Name:       "Quay bar",
		Kind:       enum.PrinterKindLocal,
		Address:    "/dev/usb/lp0",
		PaperWidth: enum.PaperWidth58,
		Active:     true,
	}
	billPrinter := domain.Printer{
		ID:         uuid.New(),
		Name:       "Thu ngan",
		Kind:       enum.PrinterKindNetwork,
		Address:    "192.168.1.51",
		PaperWidth: enum.PaperWidth80,
		IsBilling:  true,
		Active:     true,
	}
	for _, p := range []domain.Printer{kitchenPrinter, barPrinter, billPrinter} {
		if err := repo.CreatePrinter(ctx, p); err != nil {
			return fmt.Errorf("create printer %s: %w", p.Name, err)
		}
	}

	food := domain.Category{ID: uuid.New(), Name: "Mon chinh", PrinterID: &kitchenPrinter.ID}
	drinks := domain.Category{ID: uuid.New(), Name: "Do uong", PrinterID: &barPrinter.ID}
	desserts := domain.Category{ID: uuid.New(), Name: "Trang mieng"} // no kitchen routing
	for _, c := range []domain.Category{food, drinks, desserts} {
		if err := put.Category(ctx, c); err != nil {
			return fmt.Errorf("create category %s: %w", c.Name, err)
		}
	}

	dishes := []domain.Dish{
		{ID: uuid.New(), CategoryID: food.ID, Name: "Pho bo", Price: decimal.NewFromInt(55000), Active: true},
		{ID: uuid.New(), CategoryID: food.ID, Name: "Bun cha", Price: decimal.NewFromInt(45000), Active: true},
		{ID: uuid.New(), CategoryID: food.ID, Name: "Com ga xoi mo", Price: decimal.NewFromInt(50000), Active: true},
		{ID: uuid.New(), CategoryID: food.ID, Name: "Goi cuon", Price: decimal.NewFromInt(35000), Active: true},
		{ID: uuid.New(), CategoryID: drinks.ID, Name: "Ca phe sua da", Price: decimal.NewFromInt(25000), Active: true},
		{ID: uuid.New(), CategoryID: drinks.ID, Name: "Tra da", Price: decimal.NewFromInt(5000), Active: true},
		{ID: uuid.New(), CategoryID: drinks.ID, Name: "Nuoc mia", Price: decimal.NewFromInt(15000), Active: true},
		{ID: uuid.New(), CategoryID: desserts.ID, Name: "Che ba mau", Price: decimal.NewFromInt(20000), Active: true},
	}
	for _, d := range dishes {
		if err := put.Dish(ctx, d); err != nil {
			return fmt.Errorf("create dish %s: %w", d.Name, err)
		}
	}

	billTemplate := domain.Template{
		ID:         uuid.New(),
		Name:       "Hoa don Quan Pho 24",
		Type:       enum.TemplateTypeBill,
		PaperWidth: enum.PaperWidth80,
		Active:     true,
		Elements: []domain.Element{
			{Type: enum.ElementText, Content: "QUAN PHO 24", Align: enum.AlignCenter, FontSize: enum.FontLarge, Bold: true, Visible: true},
			{Type: enum.ElementText, Content: "24 Ly Quoc Su, Hoan Kiem, Ha Noi", Align: enum.AlignCenter, FontSize: enum.FontSmall, Visible: true},
			{Type: enum.ElementText, Content: "Ban {Table} - {OrderId}", Align: enum.AlignCenter, FontSize: enum.FontNormal, Visible: true},
			{Type: enum.ElementText, Content: "{PrintDate} {PrintTime}  NV: {Staff}", Align: enum.AlignCenter, FontSize: enum.FontSmall, Visible: true},
			{Type: enum.ElementSeparator, Visible: true},
			{Type: enum.ElementLineItems, Content: "note=on", Visible: true},
			{Type: enum.ElementSeparator, Visible: true},
			{Type: enum.ElementTotal, Visible: true},
			{Type: enum.ElementQRCode, Content: "PAY {OrderId} {Total}", Align: enum.AlignCenter, Visible: true},
			{Type: enum.ElementText, Content: "Xin cam on quy khach!", Align: enum.AlignCenter, FontSize: enum.FontNormal, Visible: true},
		},
	}
	if err := repo.CreateTemplate(ctx, billTemplate); err != nil {
		return fmt.Errorf("create template %s: %w", billTemplate.Name, err)
	}

	for i := 1; i <= 8; i++ {
		t := domain.Table{
			ID:     uuid.New(),
			Name:   fmt.Sprintf("%d", i),
			Type:   "Trong nha",
			Status: enum.TableStatusEmpty,
		}
		if i > 6 {
			t.Type = "Ngoai troi"
		}
		if err := put.Table(ctx, t); err != nil {
			return fmt.Errorf("create table %s: %w", t.Name, err)
		}
	}

	return nil
}

// PutFuncs carries the insert hooks for entities the Repository only
// reads. The memory store and the postgres schema both provide them.
type PutFuncs struct {
	Table    func(ctx context.Context, t domain.Table) error
	Category func(ctx context.Context, c domain.Category) error
	Dish     func(ctx context.Context, d domain.Dish) error
}

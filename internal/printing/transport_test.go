package printing

import (
	"bytes"
	"context"
	"io"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/quanpos/api/internal/domain"
	"github.com/quanpos/api/internal/enum"
)

func TestNetworkTransportSendsPayload(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()

	received := make(chan []byte, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		data, _ := io.ReadAll(conn)
		received <- data
	}()

	printer := domain.Printer{
		Kind:    enum.PrinterKindNetwork,
		Address: ln.Addr().String(), // explicit port overrides 9100
	}
	payload := TextJob([]string{"test"})

	tr := NewTransport(printer, time.Second)
	if err := tr.Send(context.Background(), payload); err != nil {
		t.Fatalf("Send: %v", err)
	}

	select {
	case got := <-received:
		if !bytes.Equal(got, payload) {
			t.Errorf("printer received %x, want %x", got, payload)
		}
	case <-time.After(time.Second):
		t.Fatal("listener never received the payload")
	}
}

func TestNetworkTransportDefaultPort(t *testing.T) {
	printer := domain.Printer{Kind: enum.PrinterKindNetwork, Address: "192.168.1.50"}
	tr := NewTransport(printer, time.Second).(*netTransport)
	if tr.addr != "192.168.1.50:9100" {
		t.Errorf("addr = %s, want 192.168.1.50:9100", tr.addr)
	}

	printer.Address = "192.168.1.50:9101"
	tr = NewTransport(printer, time.Second).(*netTransport)
	if tr.addr != "192.168.1.50:9101" {
		t.Errorf("addr = %s, want explicit port kept", tr.addr)
	}
}

func TestNetworkTransportDialFailure(t *testing.T) {
	// Grab a port and close it so nothing is listening there.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := ln.Addr().String()
	ln.Close()

	printer := domain.Printer{Kind: enum.PrinterKindNetwork, Address: addr}
	tr := NewTransport(printer, 200*time.Millisecond)
	if err := tr.Send(context.Background(), []byte("x")); err == nil {
		t.Fatal("expected dial error against closed port")
	}
}

func TestLocalTransportWritesDevice(t *testing.T) {
	device := filepath.Join(t.TempDir(), "lp0")
	if err := os.WriteFile(device, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	printer := domain.Printer{Kind: enum.PrinterKindLocal, Address: device}
	payload := []byte{0x1B, 0x40, 'h', 'i'}

	tr := NewTransport(printer, time.Second)
	if err := tr.Send(context.Background(), payload); err != nil {
		t.Fatalf("Send: %v", err)
	}

	got, err := os.ReadFile(device)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("device got %x, want %x", got, payload)
	}
}

func TestLocalTransportMissingDevice(t *testing.T) {
	printer := domain.Printer{Kind: enum.PrinterKindLocal, Address: filepath.Join(t.TempDir(), "missing")}
	tr := NewTransport(printer, time.Second)
	if err := tr.Send(context.Background(), []byte("x")); err == nil {
		t.Fatal("expected error for missing device node")
	}
}

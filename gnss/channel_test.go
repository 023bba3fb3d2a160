package gnss

import (
	"io"
	"testing"
	"time"
)

func TestChannelDeliverWithoutReader(t *testing.T) {
	ch := NewChannel()
	if ch.Deliver([]byte("$GNGGA,,*00\r\n")) {
		t.Error("Deliver with no attached reader should report false")
	}
}

func TestChannelSingleReader(t *testing.T) {
	ch := NewChannel()

	port, err := ch.Attach(64)
	if err != nil {
		t.Fatalf("first Attach failed: %v", err)
	}

	if _, err := ch.Attach(64); err != ErrReaderAttached {
		t.Errorf("second Attach error = %v, want ErrReaderAttached", err)
	}

	// Detaching frees the line for the next consumer.
	port.Close()
	if _, err := ch.Attach(64); err != nil {
		t.Errorf("Attach after Close failed: %v", err)
	}
}

func TestChannelDeliverAndRead(t *testing.T) {
	ch := NewChannel()
	port, err := ch.Attach(64)
	if err != nil {
		t.Fatalf("Attach failed: %v", err)
	}

	payload := "$GNGSA,A,3,01,03,06,12,17,28,,,,,,,1.5,1.0,1.2*27\r\n"
	if !ch.Deliver([]byte(payload)) {
		t.Fatal("Deliver to attached reader with room should report true")
	}

	buf := make([]byte, 128)
	n, err := port.Read(buf)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if string(buf[:n]) != payload {
		t.Errorf("Read = %q, want %q", buf[:n], payload)
	}
}

func TestChannelDropsWhenFull(t *testing.T) {
	ch := NewChannel()
	port, err := ch.Attach(10)
	if err != nil {
		t.Fatalf("Attach failed: %v", err)
	}

	if !ch.Deliver([]byte("12345678")) {
		t.Fatal("first Deliver should fit")
	}
	// Only 2 bytes of room left; the whole payload is dropped, not split.
	if ch.Deliver([]byte("abc")) {
		t.Error("Deliver should report false when the payload does not fit whole")
	}

	buf := make([]byte, 16)
	n, _ := port.Read(buf)
	if string(buf[:n]) != "12345678" {
		t.Errorf("buffer content = %q, want only the first payload", buf[:n])
	}

	// Draining frees the room again.
	if !ch.Deliver([]byte("abc")) {
		t.Error("Deliver after drain should fit")
	}
}

func TestPortReadBlocksUntilDeliver(t *testing.T) {
	ch := NewChannel()
	port, err := ch.Attach(64)
	if err != nil {
		t.Fatalf("Attach failed: %v", err)
	}

	got := make(chan string, 1)
	go func() {
		buf := make([]byte, 16)
		n, err := port.Read(buf)
		if err != nil {
			got <- "error: " + err.Error()
			return
		}
		got <- string(buf[:n])
	}()

	// Give the reader a moment to block.
	time.Sleep(20 * time.Millisecond)
	ch.Deliver([]byte("tick"))

	select {
	case s := <-got:
		if s != "tick" {
			t.Errorf("blocked Read woke with %q, want \"tick\"", s)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Read did not unblock after Deliver")
	}
}

func TestPortCloseUnblocksRead(t *testing.T) {
	ch := NewChannel()
	port, err := ch.Attach(64)
	if err != nil {
		t.Fatalf("Attach failed: %v", err)
	}

	errCh := make(chan error, 1)
	go func() {
		_, err := port.Read(make([]byte, 16))
		errCh <- err
	}()

	time.Sleep(20 * time.Millisecond)
	port.Close()

	select {
	case err := <-errCh:
		if err != io.EOF {
			t.Errorf("Read after Close = %v, want io.EOF", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Read did not unblock after Close")
	}
}

func TestPortCloseDrainsBufferedData(t *testing.T) {
	ch := NewChannel()
	port, err := ch.Attach(64)
	if err != nil {
		t.Fatalf("Attach failed: %v", err)
	}

	ch.Deliver([]byte("last words"))
	port.Close()

	buf := make([]byte, 16)
	n, err := port.Read(buf)
	if err != nil {
		t.Fatalf("Read of buffered data after Close failed: %v", err)
	}
	if string(buf[:n]) != "last words" {
		t.Errorf("Read = %q, want buffered data", buf[:n])
	}
	if _, err := port.Read(buf); err != io.EOF {
		t.Errorf("Read past buffered data = %v, want io.EOF", err)
	}
}

func TestChannelDeliverToClosedPort(t *testing.T) {
	ch := NewChannel()
	port, err := ch.Attach(64)
	if err != nil {
		t.Fatalf("Attach failed: %v", err)
	}
	port.Close()

	if ch.Deliver([]byte("late")) {
		t.Error("Deliver after the reader detached should report false")
	}
}

package uartasync

// EventType tags an Event. The set is closed.
type EventType uint8

const (
	// TxDone: the whole transmit buffer was accepted by the port.
	TxDone EventType = iota
	// TxAborted: the transmit timeout elapsed or the driver closed; TxLen bytes went out.
	TxAborted
	// RxReady: Len new bytes at Buf[Offset:].
	RxReady
	// RxBufRequest: the driver would accept a follow-up buffer via RxBufRsp.
	RxBufRequest
	// RxBufReleased: the driver no longer references Buf.
	RxBufReleased
	// RxDisabled: reception stopped; RxEnable must be called to resume.
	RxDisabled
	// RxStopped: the port failed or the driver closed; Reason says why.
	// RxDisabled follows a port failure only.
	RxStopped
)

func (t EventType) String() string {
	switch t {
	case TxDone:
		return "tx_done"
	case TxAborted:
		return "tx_aborted"
	case RxReady:
		return "rx_ready"
	case RxBufRequest:
		return "rx_buf_request"
	case RxBufReleased:
		return "rx_buf_released"
	case RxDisabled:
		return "rx_disabled"
	case RxStopped:
		return "rx_stopped"
	default:
		return "unknown"
	}
}

// Event is delivered to the registered Callback. Only the fields relevant to
// Type are set.
type Event struct {
	Type EventType

	// TxDone, TxAborted
	TxBuf []byte
	TxLen int

	// RxReady (Buf, Offset, Len), RxBufReleased (Buf)
	Buf    []byte
	Offset int
	Len    int

	// RxStopped
	Reason error
}

// Data returns the bytes announced by an RxReady event, or nil.
func (e Event) Data() []byte {
	if e.Type != RxReady || e.Offset < 0 || e.Offset+e.Len > len(e.Buf) {
		return nil
	}
	return e.Buf[e.Offset : e.Offset+e.Len]
}

// Callback receives driver events. It runs on a driver goroutine and must not
// block for long.
type Callback func(ev Event)

package protocol

import (
	"io"
	"math"
)

// DecodeRequest decodes a buffer that must be exactly RequestSize() bytes.
// No field is read from a buffer of any other length.
func (l Layout) DecodeRequest(b []byte) (Request, error) {
	if len(b) != l.RequestSize() {
		return Request{}, &FrameError{Got: len(b), Want: l.RequestSize()}
	}
	order := l.byteOrder()
	off := 4 + l.pad
	return Request{
		Operation: Operation(int32(order.Uint32(b[0:4]))),
		Num1:      math.Float64frombits(order.Uint64(b[off : off+8])),
		Num2:      math.Float64frombits(order.Uint64(b[off+8 : off+16])),
	}, nil
}

// DecodeResponse decodes a buffer that must be exactly ResponseSize() bytes.
func (l Layout) DecodeResponse(b []byte) (Response, error) {
	if len(b) != l.ResponseSize() {
		return Response{}, &FrameError{Got: len(b), Want: l.ResponseSize()}
	}
	order := l.byteOrder()
	off := 4 + l.pad
	return Response{
		Status: Status(int32(order.Uint32(b[0:4]))),
		Result: math.Float64frombits(order.Uint64(b[off : off+8])),
	}, nil
}

// ReadRequest reads one request record from a stream.
//
// If the stream ends or fails before any byte arrives, the underlying error is
// returned as is (io.EOF for a clean shutdown). If it ends or fails part way
// through a record, a *FrameError wrapping the cause is returned.
func (l Layout) ReadRequest(r io.Reader) (Request, error) {
	buf, err := readRecord(r, l.RequestSize())
	if err != nil {
		return Request{}, err
	}
	return l.DecodeRequest(buf)
}

// ReadResponse reads one response record from a stream; errors follow ReadRequest.
func (l Layout) ReadResponse(r io.Reader) (Response, error) {
	buf, err := readRecord(r, l.ResponseSize())
	if err != nil {
		return Response{}, err
	}
	return l.DecodeResponse(buf)
}

func readRecord(r io.Reader, size int) ([]byte, error) {
	buf := make([]byte, size)
	n, err := io.ReadFull(r, buf)
	if err != nil {
		if n == 0 {
			return nil, err
		}
		if err == io.ErrUnexpectedEOF {
			err = io.EOF
		}
		return nil, &FrameError{Got: n, Want: size, Err: err}
	}
	return buf, nil
}

// DecodeRequest decodes b in the network layout.
func DecodeRequest(b []byte) (Request, error) {
	return NetworkLayout.DecodeRequest(b)
}

// DecodeResponse decodes b in the network layout.
func DecodeResponse(b []byte) (Response, error) {
	return NetworkLayout.DecodeResponse(b)
}

package protocol

import (
	"io"
	"math"
)

// EncodeRequest returns exactly RequestSize() bytes.
func (l Layout) EncodeRequest(req Request) []byte {
	order := l.byteOrder()
	buf := make([]byte, l.RequestSize())
	order.PutUint32(buf[0:4], uint32(req.Operation))
	off := 4 + l.pad
	order.PutUint64(buf[off:off+8], math.Float64bits(req.Num1))
	order.PutUint64(buf[off+8:off+16], math.Float64bits(req.Num2))
	return buf
}

// EncodeResponse returns exactly ResponseSize() bytes.
func (l Layout) EncodeResponse(resp Response) []byte {
	order := l.byteOrder()
	buf := make([]byte, l.ResponseSize())
	order.PutUint32(buf[0:4], uint32(resp.Status))
	off := 4 + l.pad
	order.PutUint64(buf[off:off+8], math.Float64bits(resp.Result))
	return buf
}

// WriteRequest writes one full request record to w.
func (l Layout) WriteRequest(w io.Writer, req Request) error {
	return writeRecord(w, l.EncodeRequest(req))
}

// WriteResponse writes one full response record to w.
func (l Layout) WriteResponse(w io.Writer, resp Response) error {
	return writeRecord(w, l.EncodeResponse(resp))
}

func writeRecord(w io.Writer, buf []byte) error {
	n, err := w.Write(buf)
	if err != nil {
		return err
	}
	if n != len(buf) {
		return io.ErrShortWrite
	}
	return nil
}

// EncodeRequest encodes req in the network layout.
func EncodeRequest(req Request) []byte {
	return NetworkLayout.EncodeRequest(req)
}

// EncodeResponse encodes resp in the network layout.
func EncodeResponse(resp Response) []byte {
	return NetworkLayout.EncodeResponse(resp)
}

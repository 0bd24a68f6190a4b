package writer

// MemWriter captures encoded .reg bytes in memory for callers that want
// the buffer instead of a file.
type MemWriter struct {
	Buf []byte
}

// Write stores a copy of the provided buffer.
func (w *MemWriter) Write(buf []byte) error {
	w.Buf = append(w.Buf[:0], buf...)
	return nil
}

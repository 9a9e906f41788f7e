package hub

import "io"

func SetErrWriter(h *Hub, w io.Writer) {
	h.errWriter = w
}

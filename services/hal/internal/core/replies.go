package core

import (
	"zacwire-go/bus"
	"zacwire-go/errcode"
	"zacwire-go/types"
)

func (h *HAL) replyOK(m *bus.Message) {
	h.conn.Reply(m, types.ControlReply{OK: true}, false)
}

func (h *HAL) replyErr(m *bus.Message, code errcode.Code) {
	if code == "" {
		code = errcode.Error
	}
	h.conn.Reply(m, types.ControlReply{OK: false, Error: string(code)}, false)
}

func (h *HAL) replyFromError(m *bus.Message, err error) {
	h.replyErr(m, errcode.Of(err))
}

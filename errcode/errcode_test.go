package errcode

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOf(t *testing.T) {
	assert.Equal(t, OK, Of(nil))
	assert.Equal(t, WrongParity, Of(WrongParity))
	assert.Equal(t, HighRange, Of(&E{C: HighRange, Op: "zacwire.decode"}))
	assert.Equal(t, NotRunning, Of(fmt.Errorf("read: %w", NotRunning)))
	assert.Equal(t, Error, Of(errors.New("boom")))
}

func TestEFormatting(t *testing.T) {
	e := &E{C: LowRange, Op: "zacwire.decode", Msg: "code 0"}
	assert.Equal(t, "zacwire.decode: low_range: code 0", e.Error())
	assert.Equal(t, "wrong_parity", (&E{C: WrongParity}).Error())
}

func TestEIsAndUnwrap(t *testing.T) {
	cause := errors.New("pin busy")
	err := fmt.Errorf("build: %w", &E{C: PinInUse, Err: cause})
	assert.True(t, errors.Is(err, PinInUse))
	assert.True(t, errors.Is(err, cause))
	assert.False(t, errors.Is(err, UnknownPin))
}

func TestWrap(t *testing.T) {
	assert.NoError(t, Wrap("op", OK))
	err := Wrap("zacwire.decode", WrongParity)
	assert.Equal(t, WrongParity, Of(err))
	assert.True(t, IsRange(LowRange))
	assert.False(t, IsRange(CaptureOverrun))
}

package qr

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cqerrors "github.com/berrythewa/clipqr/internal/errors"
)

type stubEncoder struct {
	err   error
	panic bool
	calls []string
}

func (s *stubEncoder) Encode(payload string, width, height int) (*Symbol, error) {
	s.calls = append(s.calls, payload)
	if s.panic {
		panic("boom")
	}
	if s.err != nil {
		return nil, s.err
	}
	return &Symbol{SVG: "<svg/>", Modules: 21}, nil
}

func TestEmitSuccess(t *testing.T) {
	enc := &stubEncoder{}
	e := NewEmitter(EmitterConfig{Encoder: enc})

	res := e.Emit("https://x.example")

	assert.True(t, res.OK)
	assert.Equal(t, "<svg/>", res.Symbol.SVG)
	assert.Empty(t, res.Message)
	assert.Equal(t, []string{"https://x.example"}, enc.calls)
}

func TestEmitBlankPayload(t *testing.T) {
	enc := &stubEncoder{}
	e := NewEmitter(EmitterConfig{Encoder: enc})

	res := e.Emit("  ")

	assert.False(t, res.OK)
	assert.Empty(t, res.Message)
	assert.NoError(t, res.Err)
	assert.Empty(t, enc.calls)
}

func TestEmitEncoderFailure(t *testing.T) {
	e := NewEmitter(EmitterConfig{Encoder: &stubEncoder{err: errors.New("content too long to encode")}})

	res := e.Emit("x")

	assert.False(t, res.OK)
	assert.Equal(t, FailureText, res.Message)
	assert.True(t, cqerrors.Is(res.Err, cqerrors.ErrEncodingFailure))
}

func TestEmitEncoderPanic(t *testing.T) {
	e := NewEmitter(EmitterConfig{Encoder: &stubEncoder{panic: true}})

	var res Result
	require.NotPanics(t, func() { res = e.Emit("x") })
	assert.False(t, res.OK)
	assert.Equal(t, FailureText, res.Message)
}

func TestSymbolEncoder(t *testing.T) {
	e := NewEmitter(EmitterConfig{Width: 200, Height: 200})

	res := e.Emit("https://github.com/vxncius-dev")

	require.True(t, res.OK)
	assert.True(t, strings.HasPrefix(res.Symbol.SVG, `<svg xmlns="http://www.w3.org/2000/svg" width="200" height="200"`))
	assert.Contains(t, res.Symbol.SVG, `<path fill="#000" d="M`)
	assert.NotEmpty(t, res.Symbol.Text)
	assert.Greater(t, res.Symbol.Modules, 21)
}

func TestSymbolEncoderTooLarge(t *testing.T) {
	e := NewEmitter(EmitterConfig{})

	res := e.Emit(strings.Repeat("x", 8000))

	assert.False(t, res.OK)
	assert.Equal(t, FailureText, res.Message)
}

func TestParseLevel(t *testing.T) {
	_, err := ParseLevel("HIGH")
	assert.NoError(t, err)
	_, err = ParseLevel("")
	assert.NoError(t, err)
	_, err = ParseLevel("ultra")
	assert.Error(t, err)
}

func TestRenderSVGRuns(t *testing.T) {
	svg := renderSVG([][]bool{{true, true, false}, {false, false, true}, {false, false, false}}, 30, 30)

	assert.Contains(t, svg, `viewBox="0 0 3 3"`)
	assert.Contains(t, svg, "M0 0h2v1h-2z")
	assert.Contains(t, svg, "M2 1h1v1h-1z")
}

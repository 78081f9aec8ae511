package qr

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	cqerrors "github.com/berrythewa/clipqr/internal/errors"
)

// FailureText is shown where the symbol would be when encoding fails
const FailureText = "Content too large for QR code"

// Symbol is a rendered QR code
type Symbol struct {
	SVG     string
	Text    string
	Modules int
}

// Encoder renders a payload into a symbol of the given dimensions. It fails
// when the payload exceeds the symbol capacity.
type Encoder interface {
	Encode(payload string, width, height int) (*Symbol, error)
}

// Result reports the outcome of one emission
type Result struct {
	Payload string
	Symbol  *Symbol
	OK      bool
	// Message replaces the symbol when OK is false and the payload was not blank
	Message string
	Err     error
}

// EmitterConfig holds configuration for an Emitter
type EmitterConfig struct {
	Encoder Encoder
	Width   int
	Height  int
	Logger  *zap.Logger
}

// Emitter is the gate in front of the encoder: every encoder failure,
// including a panic, comes back as a Result with OK unset.
type Emitter struct {
	encoder Encoder
	width   int
	height  int
	logger  *zap.Logger
}

// NewEmitter creates an Emitter. A nil encoder means SymbolEncoder at medium
// recovery level.
func NewEmitter(cfg EmitterConfig) *Emitter {
	e := &Emitter{
		encoder: cfg.Encoder,
		width:   cfg.Width,
		height:  cfg.Height,
		logger:  cfg.Logger,
	}
	if e.encoder == nil {
		e.encoder = NewSymbolEncoder(LevelMedium)
	}
	if e.width <= 0 {
		e.width = 200
	}
	if e.height <= 0 {
		e.height = 200
	}
	if e.logger == nil {
		e.logger = zap.NewNop()
	}
	return e
}

// Emit encodes payload. A blank payload yields an empty, failed Result with
// no message.
func (e *Emitter) Emit(payload string) (res Result) {
	res.Payload = payload
	if strings.TrimSpace(payload) == "" {
		return res
	}

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("encoder panic: %v", r)
			e.logger.Error("QR generation failed", zap.Error(err))
			res = Result{Payload: payload, Message: FailureText, Err: cqerrors.NewEncodingFailure(err)}
		}
	}()

	symbol, err := e.encoder.Encode(payload, e.width, e.height)
	if err != nil {
		e.logger.Info("QR generation failed",
			zap.Int("payload_bytes", len(payload)),
			zap.Error(err))
		return Result{Payload: payload, Message: FailureText, Err: cqerrors.NewEncodingFailure(err)}
	}
	return Result{Payload: payload, Symbol: symbol, OK: true}
}

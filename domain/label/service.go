package label

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/seedtabs/qrcoder/constant"
	"github.com/seedtabs/qrcoder/infrastructure/logger"
)

// Options configures a Service for the lifetime of the process
type Options struct {
	// Template is the payload template, see PayloadTemplate.
	Template string
	Variant  Variant
	// AbortOnExceeded stops the batch on the first code whose payload fits
	// no QR version at all. By default such codes are skipped.
	AbortOnExceeded bool
}

// Service renders labels and drives batches
type Service struct {
	encoder  Encoder
	composer Composer
	writer   Writer
	ledger   Ledger
	log      *logger.Logger
	opts     Options
}

// NewService creates a new label service. writer may be nil for a
// service that only renders.
func NewService(encoder Encoder, composer Composer, writer Writer, log *logger.Logger, opts Options) *Service {
	if log == nil {
		log = logger.NewNop()
	}

	log.Debug("Creating label service", logger.LoggerInfo{
		ContextFunction: constant.CtxDomain,
		Data: map[string]interface{}{
			constant.DataService: "label",
			constant.DataLabeled: opts.Variant.WithLabel,
			constant.DataFormat:  string(opts.Variant.Format),
		},
	})

	return &Service{
		encoder:  encoder,
		composer: composer,
		writer:   writer,
		log:      log,
		opts:     opts,
	}
}

// WithLedger attaches an issuance ledger.
func (s *Service) WithLedger(ledger Ledger) *Service {
	s.ledger = ledger
	return s
}

// Variant returns the configured pipeline variant
func (s *Service) Variant() Variant {
	return s.opts.Variant
}

// Render builds the payload, symbol and final image for one code
// without touching the filesystem.
func (s *Service) Render(ctx context.Context, pkgType PackageType, code int) (*Rendered, error) {
	if !pkgType.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPackageType, string(pkgType))
	}

	payload := FormatPayload(code, pkgType, s.opts.Template)

	symbol, err := s.encoder.Encode(payload)
	if err != nil {
		return nil, fmt.Errorf("code %d: %w", code, err)
	}

	if symbol.Overflowed() {
		s.log.CtxWarn(ctx, fmt.Sprintf(constant.MsgOverflowFmt, code), logger.LoggerInfo{
			ContextFunction: constant.CtxRender,
			Error: &logger.CustomError{
				Code:    constant.ErrCodeCapacityOverflow,
				Message: "payload does not fit the target version",
				Type:    constant.ErrTypeEncoding,
			},
			Data: map[string]interface{}{
				constant.DataCode:    code,
				constant.DataVersion: symbol.Version,
				constant.DataTarget:  symbol.TargetVersion,
			},
		})
	}

	img := symbol.Image
	if s.opts.Variant.WithLabel {
		img, err = s.composer.Compose(symbol, LabelText(code))
		if err != nil {
			s.log.CtxError(ctx, "Failed to compose label", logger.LoggerInfo{
				ContextFunction: constant.CtxRender,
				Error: &logger.CustomError{
					Code:    constant.ErrCodeCompose,
					Message: err.Error(),
					Type:    constant.ErrTypeCompose,
				},
				Data: map[string]interface{}{
					constant.DataCode: code,
				},
			})
			return nil, fmt.Errorf("code %d: %w", code, err)
		}
	}

	return &Rendered{
		Code:    code,
		Type:    pkgType,
		Payload: payload,
		Symbol:  symbol,
		Image:   img,
	}, nil
}

// Run generates one label file for every code in
// [req.Start, req.Start+req.Count), strictly in ascending order.
func (s *Service) Run(ctx context.Context, req Request) (*Summary, error) {
	if !req.Type.Valid() {
		s.log.CtxWarn(ctx, constant.ErrInvalidPackageType, logger.LoggerInfo{
			ContextFunction: constant.CtxRun,
			Error: &logger.CustomError{
				Code:    constant.ErrCodeInvalidPackageType,
				Message: constant.ErrInvalidPackageType,
				Type:    constant.ErrTypeValidation,
			},
			Data: map[string]interface{}{
				constant.DataType: string(req.Type),
			},
		})
		return nil, fmt.Errorf("%w: %q", ErrInvalidPackageType, string(req.Type))
	}
	if req.Count < 0 {
		s.log.CtxWarn(ctx, constant.ErrInvalidCount, logger.LoggerInfo{
			ContextFunction: constant.CtxRun,
			Error: &logger.CustomError{
				Code:    constant.ErrCodeInvalidCount,
				Message: constant.ErrInvalidCount,
				Type:    constant.ErrTypeValidation,
			},
			Data: map[string]interface{}{
				constant.DataCount: req.Count,
			},
		})
		return nil, fmt.Errorf("%w: %d", ErrInvalidCount, req.Count)
	}
	if req.Start > math.MaxInt-req.Count {
		s.log.CtxWarn(ctx, constant.ErrRangeOverflow, logger.LoggerInfo{
			ContextFunction: constant.CtxRun,
			Error: &logger.CustomError{
				Code:    constant.ErrCodeInvalidRange,
				Message: constant.ErrRangeOverflow,
				Type:    constant.ErrTypeValidation,
			},
			Data: map[string]interface{}{
				constant.DataStart: req.Start,
				constant.DataCount: req.Count,
			},
		})
		return nil, fmt.Errorf("%w: start %d, count %d", ErrInvalidRange, req.Start, req.Count)
	}
	if s.writer == nil {
		return nil, errors.New("label service has no writer")
	}

	summary := &Summary{RunID: uuid.New().String()}
	ctx = logger.WithRunID(ctx, summary.RunID)

	s.log.CtxDebug(ctx, "Starting batch", logger.LoggerInfo{
		ContextFunction: constant.CtxRun,
		Data: map[string]interface{}{
			constant.DataType:  string(req.Type),
			constant.DataStart: req.Start,
			constant.DataCount: req.Count,
		},
	})

	s.warnIssued(ctx, req)

	for code := req.Start; code < req.Start+req.Count; code++ {
		artifact, err := s.generate(ctx, req.Type, code, summary.RunID)
		if err != nil {
			if errors.Is(err, ErrCapacityExceeded) && !s.opts.AbortOnExceeded {
				s.log.CtxError(ctx, constant.MsgSkippedCode, logger.LoggerInfo{
					ContextFunction: constant.CtxRun,
					Error: &logger.CustomError{
						Code:    constant.ErrCodeCapacityExceeded,
						Message: err.Error(),
						Type:    constant.ErrTypeEncoding,
					},
					Data: map[string]interface{}{
						constant.DataCode: code,
					},
				})
				summary.Skipped = append(summary.Skipped, code)
				continue
			}
			return summary, err
		}

		summary.Generated++
		if artifact.Overflowed {
			summary.Overflowed++
		}
	}

	s.log.CtxInfo(ctx, fmt.Sprintf(constant.MsgGeneratedFmt, summary.Generated), logger.LoggerInfo{
		ContextFunction: constant.CtxRun,
		Data: map[string]interface{}{
			constant.DataCount:      req.Count,
			constant.DataGenerated:  summary.Generated,
			constant.DataOverflowed: summary.Overflowed,
			constant.DataSkipped:    len(summary.Skipped),
		},
	})

	return summary, nil
}

// generate renders, writes and records a single code
func (s *Service) generate(ctx context.Context, pkgType PackageType, code int, runID string) (*Artifact, error) {
	rendered, err := s.Render(ctx, pkgType, code)
	if err != nil {
		if errors.Is(err, ErrCapacityExceeded) && s.opts.AbortOnExceeded {
			s.log.CtxError(ctx, "Payload does not fit any qr code version", logger.LoggerInfo{
				ContextFunction: constant.CtxRun,
				Error: &logger.CustomError{
					Code:    constant.ErrCodeCapacityExceeded,
					Message: err.Error(),
					Type:    constant.ErrTypeEncoding,
				},
				Data: map[string]interface{}{
					constant.DataCode: code,
				},
			})
		}
		return nil, err
	}

	path, err := s.writer.Write(code, rendered.Image)
	if err != nil {
		s.log.CtxError(ctx, "Failed to write label image", logger.LoggerInfo{
			ContextFunction: constant.CtxRun,
			Error: &logger.CustomError{
				Code:    constant.ErrCodeWriteFailure,
				Message: err.Error(),
				Type:    constant.ErrTypeOutput,
			},
			Data: map[string]interface{}{
				constant.DataCode: code,
				constant.DataPath: s.writer.Path(code),
			},
		})
		if !errors.Is(err, ErrWriteFailed) {
			err = fmt.Errorf("%w: %v", ErrWriteFailed, err)
		}
		return nil, err
	}

	bounds := rendered.Image.Bounds()
	artifact := &Artifact{
		RunID:      runID,
		Code:       code,
		Type:       pkgType,
		Payload:    rendered.Payload,
		Path:       path,
		Width:      bounds.Dx(),
		Height:     bounds.Dy(),
		Version:    rendered.Symbol.Version,
		Overflowed: rendered.Symbol.Overflowed(),
		CreatedAt:  time.Now(),
	}

	if s.ledger != nil {
		if err := s.ledger.Record(ctx, artifact); err != nil {
			s.log.CtxWarn(ctx, "Failed to record issued label", logger.LoggerInfo{
				ContextFunction: constant.CtxRun,
				Error: &logger.CustomError{
					Code:    constant.ErrCodeLedgerRecord,
					Message: err.Error(),
					Type:    constant.ErrTypeLedger,
				},
				Data: map[string]interface{}{
					constant.DataCode: code,
				},
			})
		}
	}

	s.log.CtxDebug(ctx, constant.MsgWritingLabel, logger.LoggerInfo{
		ContextFunction: constant.CtxRun,
		Data: map[string]interface{}{
			constant.DataCode:       code,
			constant.DataDimensions: fmt.Sprintf("%dx%d", artifact.Width, artifact.Height),
			constant.DataPayload:    artifact.Payload,
			constant.DataPath:       path,
		},
	})

	return artifact, nil
}

// warnIssued flags codes an earlier run already printed. It never blocks
// the batch.
func (s *Service) warnIssued(ctx context.Context, req Request) {
	if s.ledger == nil || req.Count == 0 {
		return
	}

	issued, err := s.ledger.Issued(ctx, req.Start, req.Count)
	if err != nil {
		s.log.CtxWarn(ctx, "Failed to check issuance ledger", logger.LoggerInfo{
			ContextFunction: constant.CtxPreflight,
			Error: &logger.CustomError{
				Code:    constant.ErrCodeLedgerLookup,
				Message: err.Error(),
				Type:    constant.ErrTypeLedger,
			},
		})
		return
	}

	for _, code := range issued {
		s.log.CtxWarn(ctx, constant.MsgAlreadyIssued, logger.LoggerInfo{
			ContextFunction: constant.CtxPreflight,
			Data: map[string]interface{}{
				constant.DataCode: code,
			},
		})
	}
}

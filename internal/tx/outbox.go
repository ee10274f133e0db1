package tx

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"monsterScope/internal/clarity"
	"monsterScope/internal/model"
	"monsterScope/internal/storage"
)

// Submitter hands a contract call to whatever signs and broadcasts it and returns
// an identifier for the submission.
type Submitter interface {
	Submit(ctx context.Context, call ContractCall) (string, error)
}

// Outbox queues unsigned calls as JSON lines for an external wallet.
// The returned identifier is a request id, not a transaction id.
type Outbox struct {
	sink   *storage.JsonlStorage
	logger *zap.Logger
	now    func() time.Time
	newID  func() string
}

func NewOutbox(sink *storage.JsonlStorage, logger *zap.Logger) *Outbox {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Outbox{
		sink:   sink,
		logger: logger,
		now:    time.Now,
		newID:  func() string { return uuid.NewString() },
	}
}

// Submit implements Submitter.
func (o *Outbox) Submit(ctx context.Context, call ContractCall) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrCancelled, err)
	}

	record, err := o.record(call)
	if err != nil {
		return "", err
	}
	if err := o.sink.PutRecords(ctx, record); err != nil {
		return "", fmt.Errorf("queue contract call: %w", err)
	}

	o.logger.Info("contract call queued",
		zap.String("request_id", record.RequestID),
		zap.String("contract", call.Contract.String()),
		zap.String("function", call.Function),
	)
	return record.RequestID, nil
}

func (o *Outbox) record(call ContractCall) (model.ContractCallRecord, error) {
	if err := call.Contract.Validate(); err != nil {
		return model.ContractCallRecord{}, err
	}
	if call.Function == "" {
		return model.ContractCallRecord{}, fmt.Errorf("function name is required")
	}

	args := make([]string, 0, len(call.Args))
	reprs := make([]string, 0, len(call.Args))
	for i, arg := range call.Args {
		hex, err := clarity.EncodeHex(arg)
		if err != nil {
			return model.ContractCallRecord{}, fmt.Errorf("encode argument %d: %w", i, err)
		}
		args = append(args, hex)
		reprs = append(reprs, clarity.String(arg))
	}

	return model.ContractCallRecord{
		RequestID:         o.newID(),
		ContractAddress:   call.Contract.Address,
		ContractName:      call.Contract.Name,
		FunctionName:      call.Function,
		FunctionArgs:      args,
		ArgsRepr:          reprs,
		PostConditionMode: string(call.PostConditionMode),
		AnchorMode:        string(call.AnchorMode),
		CreatedAt:         o.now().UTC().Format(time.RFC3339),
	}, nil
}

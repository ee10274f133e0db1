package competition

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"monsterScope/internal/clarity"
	"monsterScope/internal/model"
	"monsterScope/internal/monster"
	"monsterScope/internal/stacks"
)

const (
	FunctionGetParticipants = "get-participants"
	FunctionGetTenure       = "get-tenure"
	MapSecondBests          = "second-bests"
)

// InfoReader reads node information.
type InfoReader interface {
	CoreInfo(ctx context.Context) (model.CoreInfo, error)
}

// Tracker reads the state of the per-tenure competition.
type Tracker struct {
	contract stacks.Contract
	sender   string
	reader   monster.ContractReader
	info     InfoReader
	resolver *monster.Resolver
	logger   *zap.Logger
}

// NewTracker builds a Tracker. The resolver is used to expand the prize monster.
func NewTracker(contract stacks.Contract, sender string, reader monster.ContractReader, info InfoReader, resolver *monster.Resolver, logger *zap.Logger) *Tracker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Tracker{
		contract: contract,
		sender:   sender,
		reader:   reader,
		info:     info,
		resolver: resolver,
		logger:   logger,
	}
}

// Participants returns the principals taking part in the competition, or an empty list.
func (t *Tracker) Participants(ctx context.Context) []string {
	participants, err := t.participants(ctx)
	if err != nil {
		t.logger.Warn("participants defaulted", zap.Error(err))
		return []string{}
	}
	return participants
}

func (t *Tracker) participants(ctx context.Context) ([]string, error) {
	v, err := t.reader.CallReadOnly(ctx, t.contract, FunctionGetParticipants, t.sender)
	if err != nil {
		return nil, err
	}
	inner, err := clarity.UnwrapOk(v)
	if err != nil {
		return nil, err
	}
	list, err := clarity.AsList(inner)
	if err != nil {
		return nil, err
	}

	out := make([]string, 0, len(list))
	for _, item := range list {
		p, err := clarity.AsPrincipal(item)
		if err != nil {
			return nil, err
		}
		out = append(out, p.String())
	}
	return out, nil
}

// Tenure returns the tenure of a participant, or 0 when it cannot be read.
func (t *Tracker) Tenure(ctx context.Context, participantID uint64) uint64 {
	tenure, err := t.tenure(ctx, participantID)
	if err != nil {
		t.logger.Warn("tenure defaulted", zap.Uint64("participant_id", participantID), zap.Error(err))
		return 0
	}
	return tenure
}

func (t *Tracker) tenure(ctx context.Context, participantID uint64) (uint64, error) {
	v, err := t.reader.CallReadOnly(ctx, t.contract, FunctionGetTenure, t.sender, clarity.NewUInt(participantID))
	if err != nil {
		return 0, err
	}
	inner, err := clarity.UnwrapOk(v)
	if err != nil {
		return 0, err
	}
	u, err := clarity.AsUInt(inner)
	if err != nil {
		return 0, err
	}
	n, ok := u.Uint64()
	if !ok {
		return 0, errors.New("tenure does not fit in uint64")
	}
	return n, nil
}

// Prize returns the competition state for the current tenure. The prize is the
// second best monster; it is left empty when the tenure has none or the lookup
// fails. Only unexpected faults of the prize resolution are returned.
func (t *Tracker) Prize(ctx context.Context) (model.CompetitionData, error) {
	info, err := t.info.CoreInfo(ctx)
	if err != nil {
		t.logger.Warn("core info unavailable", zap.Error(err))
		return model.CompetitionData{}, nil
	}
	data := model.CompetitionData{TenureHeight: info.TenureHeight}

	entry, err := t.reader.MapEntry(ctx, t.contract, MapSecondBests, clarity.NewUInt(info.TenureHeight))
	if err != nil {
		t.logger.Warn("second-bests lookup failed", zap.Uint64("tenure_height", info.TenureHeight), zap.Error(err))
		return data, nil
	}
	monsterID, count, found, err := decodeSecondBest(entry)
	if err != nil {
		t.logger.Warn("second-bests entry malformed", zap.Uint64("tenure_height", info.TenureHeight), zap.Error(err))
		return data, nil
	}
	if !found {
		return data, nil
	}
	data.SecondBestCount = count
	if monsterID == 0 {
		return data, nil
	}

	prize, err := t.resolver.Resolve(ctx, monsterID)
	if err != nil {
		return data, err
	}
	data.SecondBestPrize = &prize
	return data, nil
}

func decodeSecondBest(v clarity.Value) (monsterID, count uint64, found bool, err error) {
	inner, found, err := clarity.UnwrapSome(v)
	if err != nil || !found {
		return 0, 0, false, err
	}
	tuple, err := clarity.AsTuple(inner)
	if err != nil {
		return 0, 0, false, err
	}
	id, err := tuple.UIntField("monster-id")
	if err != nil {
		return 0, 0, false, err
	}
	n, err := tuple.UIntField("count")
	if err != nil {
		return 0, 0, false, err
	}

	monsterID, ok := id.Uint64()
	if !ok {
		return 0, 0, false, errors.New("monster-id does not fit in uint64")
	}
	count, _ = n.Uint64()
	return monsterID, count, true, nil
}

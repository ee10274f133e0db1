package competition

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"monsterScope/internal/clarity"
	"monsterScope/internal/model"
	"monsterScope/internal/monster"
	"monsterScope/internal/stacks"
)

const testAddress = "ST000000000000000000002AMW42H"

var testContract = stacks.Contract{Address: testAddress, Name: "monsters"}

type fakeReader struct {
	calls   map[string]func(args []clarity.Value) (clarity.Value, error)
	entries map[string]func(key clarity.Value) (clarity.Value, error)
}

func (f *fakeReader) CallReadOnly(ctx context.Context, contract stacks.Contract, function string, sender string, args ...clarity.Value) (clarity.Value, error) {
	fn, ok := f.calls[function]
	if !ok {
		return nil, errors.New("unknown function " + function)
	}
	return fn(args)
}

func (f *fakeReader) MapEntry(ctx context.Context, contract stacks.Contract, mapName string, key clarity.Value) (clarity.Value, error) {
	fn, ok := f.entries[mapName]
	if !ok {
		return clarity.None{}, nil
	}
	return fn(key)
}

type fakeInfo struct {
	info model.CoreInfo
	err  error
}

func (f fakeInfo) CoreInfo(ctx context.Context) (model.CoreInfo, error) {
	return f.info, f.err
}

func principal(t *testing.T, s string) clarity.Principal {
	t.Helper()
	p, err := clarity.ParsePrincipal(s)
	require.NoError(t, err)
	return p
}

func newTracker(reader *fakeReader, info InfoReader) *Tracker {
	resolver := monster.NewResolver(monster.Config{Contract: testContract}, reader, nil, nil)
	return NewTracker(testContract, "", reader, info, resolver, nil)
}

func TestParticipants(t *testing.T) {
	reader := &fakeReader{calls: map[string]func([]clarity.Value) (clarity.Value, error){
		FunctionGetParticipants: func([]clarity.Value) (clarity.Value, error) {
			return clarity.ResponseOk{Value: clarity.List{
				principal(t, testAddress),
				principal(t, testAddress+".vault"),
			}}, nil
		},
	}}

	got := newTracker(reader, fakeInfo{}).Participants(context.Background())
	require.Equal(t, []string{testAddress, testAddress + ".vault"}, got)
}

func TestParticipantsDefaults(t *testing.T) {
	replies := []func([]clarity.Value) (clarity.Value, error){
		func([]clarity.Value) (clarity.Value, error) { return nil, errors.New("timeout") },
		func([]clarity.Value) (clarity.Value, error) { return clarity.ResponseErr{Value: clarity.NewUInt(1)}, nil },
		func([]clarity.Value) (clarity.Value, error) {
			return clarity.ResponseOk{Value: clarity.List{clarity.NewUInt(1)}}, nil
		},
	}
	for _, reply := range replies {
		reader := &fakeReader{calls: map[string]func([]clarity.Value) (clarity.Value, error){FunctionGetParticipants: reply}}
		got := newTracker(reader, fakeInfo{}).Participants(context.Background())
		require.NotNil(t, got)
		require.Empty(t, got)
	}
}

func TestTenure(t *testing.T) {
	reader := &fakeReader{calls: map[string]func([]clarity.Value) (clarity.Value, error){
		FunctionGetTenure: func(args []clarity.Value) (clarity.Value, error) {
			id, err := clarity.AsUInt(args[0])
			if err != nil {
				return nil, err
			}
			n, _ := id.Uint64()
			if n == 1 {
				return clarity.ResponseOk{Value: clarity.NewUInt(88)}, nil
			}
			return clarity.ResponseErr{Value: clarity.NewUInt(404)}, nil
		},
	}}
	tracker := newTracker(reader, fakeInfo{})

	require.Equal(t, uint64(88), tracker.Tenure(context.Background(), 1))
	require.Zero(t, tracker.Tenure(context.Background(), 2))
}

func secondBest(id, count uint64) func(clarity.Value) (clarity.Value, error) {
	return func(key clarity.Value) (clarity.Value, error) {
		return clarity.Some{Value: clarity.Tuple{
			"monster-id": clarity.NewUInt(id),
			"count":      clarity.NewUInt(count),
		}}, nil
	}
}

func TestPrizeResolvesSecondBest(t *testing.T) {
	var gotKey uint64
	reader := &fakeReader{
		calls: map[string]func([]clarity.Value) (clarity.Value, error){
			monster.FunctionGetOwner: func([]clarity.Value) (clarity.Value, error) {
				return clarity.ResponseOk{Value: clarity.Some{Value: principal(t, testAddress)}}, nil
			},
			monster.FunctionIsAlive: func([]clarity.Value) (clarity.Value, error) {
				return clarity.ResponseOk{Value: clarity.Bool(true)}, nil
			},
		},
		entries: map[string]func(clarity.Value) (clarity.Value, error){
			MapSecondBests: func(key clarity.Value) (clarity.Value, error) {
				u, err := clarity.AsUInt(key)
				if err != nil {
					return nil, err
				}
				gotKey, _ = u.Uint64()
				return secondBest(5, 3)(key)
			},
		},
	}

	data, err := newTracker(reader, fakeInfo{info: model.CoreInfo{TenureHeight: 1200}}).Prize(context.Background())
	require.NoError(t, err)
	require.Equal(t, uint64(1200), gotKey)
	require.Equal(t, uint64(1200), data.TenureHeight)
	require.Equal(t, uint64(3), data.SecondBestCount)
	require.NotNil(t, data.SecondBestPrize)
	require.Equal(t, uint64(5), data.SecondBestPrize.MetaData.ID)
	require.Equal(t, testAddress, data.SecondBestPrize.Owner)
	require.True(t, data.SecondBestPrize.Alive)
}

func TestPrizeEmpty(t *testing.T) {
	cases := map[string]struct {
		info  fakeInfo
		entry func(clarity.Value) (clarity.Value, error)
	}{
		"info failure":  {info: fakeInfo{err: errors.New("down")}},
		"no entry":      {info: fakeInfo{info: model.CoreInfo{TenureHeight: 3}}},
		"zero monster":  {info: fakeInfo{info: model.CoreInfo{TenureHeight: 3}}, entry: secondBest(0, 0)},
		"lookup failed": {info: fakeInfo{info: model.CoreInfo{TenureHeight: 3}}, entry: func(clarity.Value) (clarity.Value, error) { return nil, errors.New("502") }},
		"malformed": {info: fakeInfo{info: model.CoreInfo{TenureHeight: 3}}, entry: func(clarity.Value) (clarity.Value, error) {
			return clarity.Some{Value: clarity.NewUInt(5)}, nil
		}},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			reader := &fakeReader{entries: map[string]func(clarity.Value) (clarity.Value, error){}}
			if tc.entry != nil {
				reader.entries[MapSecondBests] = tc.entry
			}
			data, err := newTracker(reader, tc.info).Prize(context.Background())
			require.NoError(t, err)
			require.Nil(t, data.SecondBestPrize)
		})
	}
}

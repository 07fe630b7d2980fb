package cache

import (
	"context"
	"testing"
	"time"

	"github.com/riskibarqy/squad-lineup/internal/domain/lineup"
	lineupmock "github.com/riskibarqy/squad-lineup/internal/mocks/domain/lineup"
	basecache "github.com/riskibarqy/squad-lineup/internal/platform/cache"
	"github.com/stretchr/testify/mock"
)

func TestBackend_CachesFormationsAndDetails(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	next := lineupmock.NewBackend(t)
	backend := NewBackend(next, basecache.NewStore(time.Minute))

	next.On("FetchFormations", mock.Anything).
		Return([]lineup.FormationRef{{ID: 1, Code: "4-3-3"}}, nil).
		Once()
	next.On("FetchLineupDetail", mock.Anything, int64(7)).
		Return([]lineup.RoleAssignment{{Role: 6, PlayerID: 101}}, nil).
		Once()

	for i := 0; i < 3; i++ {
		refs, err := backend.FetchFormations(ctx)
		if err != nil || len(refs) != 1 {
			t.Fatalf("fetch formations: refs=%v err=%v", refs, err)
		}
		detail, err := backend.FetchLineupDetail(ctx, 7)
		if err != nil || len(detail) != 1 {
			t.Fatalf("fetch detail: detail=%v err=%v", detail, err)
		}
	}
}

func TestBackend_SquadIsNeverCached(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	next := lineupmock.NewBackend(t)
	backend := NewBackend(next, basecache.NewStore(time.Minute))

	next.On("FetchSquad", mock.Anything).
		Return([]lineup.Player{{ID: 1}}, nil).
		Twice()

	for i := 0; i < 2; i++ {
		if _, err := backend.FetchSquad(ctx); err != nil {
			t.Fatalf("fetch squad: %v", err)
		}
	}
}

package providers

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/samber/do/v2"
	"github.com/stretchr/testify/require"

	"github.com/mokjangapp/mokjang-server/internal/domain"
	"github.com/mokjangapp/mokjang-server/internal/logger"
	"github.com/mokjangapp/mokjang-server/internal/service"
	"github.com/mokjangapp/mokjang-server/internal/store/sqlite"
)

func TestProvideAssignmentServicePreloadsBoard(t *testing.T) {
	ctx := context.Background()
	slogger := slog.New(slog.NewTextHandler(io.Discard, nil))

	st, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"), slogger)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	now := time.Now()
	require.NoError(t, st.CreateMember(ctx, &domain.Member{
		ID:         "mem_1",
		KoreanName: "김목원",
		Status:     domain.StatusActive,
		Tags:       []string{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}))
	require.NoError(t, st.CreateParentList(ctx, &domain.ParentList{
		ID:        "pl_1",
		Type:      domain.TaxonomyMokjang,
		Name:      "목장",
		CreatedAt: now,
		UpdatedAt: now,
	}))
	require.NoError(t, st.CreateChildList(ctx, &domain.ChildList{
		ID:        "cl_1",
		ParentID:  "pl_1",
		Name:      "1목장",
		CreatedAt: now,
		UpdatedAt: now,
	}))

	injector := do.New()
	do.ProvideValue(injector, &StoreHandle{Store: st})
	do.ProvideValue(injector, logger.New(logger.Config{Writer: io.Discard, Level: slog.LevelError}))
	do.Provide(injector, ProvideAssignmentService)

	svc := do.MustInvoke[*service.AssignmentService](injector)

	// The first drop after boot must see the store's rows without an
	// explicit reload call.
	result, err := svc.Apply(ctx, service.AssignmentRequest{
		ItemType:   "member",
		ItemID:     "mem_1",
		TargetType: "mokjang",
		TargetID:   "cl_1",
	})
	require.NoError(t, err)
	require.True(t, result.Applied)

	member, err := st.GetMember(ctx, "mem_1")
	require.NoError(t, err)
	require.Equal(t, "1목장", member.Mokjang)
}

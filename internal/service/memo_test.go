package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/mokjangapp/mokjang-server/internal/errors"
)

func setupMemoTest(t *testing.T) (*MemoService, string) {
	t.Helper()

	st := newTestStore(t)
	members := NewMemberService(st, testLogger())
	member, err := members.CreateMember(context.Background(), CreateMemberRequest{
		KoreanName: "윤지우",
	})
	require.NoError(t, err)
	return NewMemoService(st, testLogger()), member.ID
}

func TestMemoService_AddAndList(t *testing.T) {
	svc, memberID := setupMemoTest(t)
	ctx := context.Background()

	entries, err := svc.AddEntry(ctx, memberID, "첫 심방 완료")
	require.NoError(t, err)
	require.Len(t, entries, 1)

	entries, err = svc.AddEntry(ctx, memberID, "기도 제목 업데이트")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	// Newest first.
	assert.Equal(t, "기도 제목 업데이트", entries[0].Content)
	assert.Equal(t, "첫 심방 완료", entries[1].Content)

	listed, err := svc.ListEntries(ctx, memberID)
	require.NoError(t, err)
	assert.Equal(t, entries, listed)
}

func TestMemoService_AddRejectsBlank(t *testing.T) {
	svc, memberID := setupMemoTest(t)

	_, err := svc.AddEntry(context.Background(), memberID, "   \n  ")
	require.Error(t, err)
	var domainErr *domainerrors.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domainerrors.CodeValidation, domainErr.Code)
}

func TestMemoService_UpdatePreservesTimestamp(t *testing.T) {
	svc, memberID := setupMemoTest(t)
	ctx := context.Background()

	entries, err := svc.AddEntry(ctx, memberID, "원본 내용")
	require.NoError(t, err)
	stamp := entries[0].Timestamp

	entries, err = svc.UpdateEntry(ctx, memberID, 0, "수정된 내용")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "수정된 내용", entries[0].Content)
	assert.Equal(t, stamp, entries[0].Timestamp)
}

func TestMemoService_RemoveOutOfRangeIsNoop(t *testing.T) {
	svc, memberID := setupMemoTest(t)
	ctx := context.Background()

	_, err := svc.AddEntry(ctx, memberID, "남는 항목")
	require.NoError(t, err)

	entries, err := svc.RemoveEntry(ctx, memberID, 5)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	entries, err = svc.RemoveEntry(ctx, memberID, 0)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestMemoService_UnknownMember(t *testing.T) {
	svc, _ := setupMemoTest(t)

	_, err := svc.ListEntries(context.Background(), "mem_missing")
	require.Error(t, err)
	var domainErr *domainerrors.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domainerrors.CodeNotFound, domainErr.Code)
}

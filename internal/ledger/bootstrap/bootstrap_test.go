package bootstrap

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/caderno/caderno/internal/ledger/accounts"
)

type recordingRepo struct {
	existing int64
	created  []accounts.Account
}

func (r *recordingRepo) ListAll(context.Context) ([]accounts.Account, error) {
	return r.created, nil
}

func (r *recordingRepo) Get(context.Context, int64) (accounts.Account, error) {
	return accounts.Account{}, nil
}

func (r *recordingRepo) Create(_ context.Context, a accounts.Account) (accounts.Account, error) {
	a.ID = int64(len(r.created) + 1)
	r.created = append(r.created, a)
	return a, nil
}

func (r *recordingRepo) Update(context.Context, accounts.Account) error { return nil }

func (r *recordingRepo) Delete(context.Context, int64) error { return nil }

func (r *recordingRepo) Count(context.Context) (int64, error) {
	return r.existing + int64(len(r.created)), nil
}

func (r *recordingRepo) WithTx(_ context.Context, fn func(accounts.Repository) error) error {
	return fn(r)
}

func TestSeedCreatesFiveSystemRoots(t *testing.T) {
	repo := &recordingRepo{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	require.NoError(t, Seed(context.Background(), repo, logger))
	require.Len(t, repo.created, 5)
	for _, a := range repo.created {
		require.True(t, a.SystemManaged)
		require.True(t, a.Active)
		require.Equal(t, accounts.TypeSynthetic, a.Type)
		require.Nil(t, a.ParentID)
	}
	require.Equal(t, accounts.NatureDebtor, repo.created[0].Nature)
	require.Equal(t, accounts.NatureCreditor, repo.created[1].Nature)
	require.Equal(t, accounts.NatureDebtor, repo.created[4].Nature)
}

func TestSeedSkipsNonEmptyChart(t *testing.T) {
	repo := &recordingRepo{existing: 5}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	require.NoError(t, Seed(context.Background(), repo, logger))
	require.Empty(t, repo.created)
}

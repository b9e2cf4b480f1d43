package service

import (
	"context"
	"errors"
	"testing"

	"github.com/emojitopng/emojitopng-backend/internal/common"
	"github.com/emojitopng/emojitopng-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	overrideCSV = "slug,emoji,name\nrow1,😀,Grin\nslug,emoji,name\nrow2,😎,Cool\n"
	bundleCSV   = "slug,emoji,name\nparty,🎉,Party Popper\n"
)

func names(records []domain.EmojiRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Name
	}
	return out
}

func TestLoad_OverrideWins(t *testing.T) {
	repo := &memOverrideRepo{}
	require.NoError(t, repo.Put(context.Background(), overrideCSV))
	svc := NewDatasetService(repo, staticBundle(bundleCSV))

	res := svc.Load(context.Background())

	assert.Equal(t, domain.SourceOverride, res.Source)
	assert.Equal(t, []string{"Cool", "Grin"}, names(res.Records))
	require.Len(t, res.Skipped, 1)
	assert.Equal(t, 2, res.Skipped[0].Line)
	assert.False(t, res.LoadedAt.IsZero())
}

func TestLoad_FallsBackToBundle(t *testing.T) {
	tests := []struct {
		name  string
		setup func(repo *mockOverrideRepo)
	}{
		{"no override", func(repo *mockOverrideRepo) {
			repo.On("Get", mock.Anything).Return("", false, nil)
		}},
		{"override with zero records", func(repo *mockOverrideRepo) {
			repo.On("Get", mock.Anything).Return("slug,emoji,name\nonly,two\n", true, nil)
		}},
		{"override read error", func(repo *mockOverrideRepo) {
			repo.On("Get", mock.Anything).Return("", false, errors.New("disk on fire"))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mockOverrideRepo)
			tt.setup(repo)
			svc := NewDatasetService(repo, staticBundle(bundleCSV))

			res := svc.Load(context.Background())

			assert.Equal(t, domain.SourceBundle, res.Source)
			assert.Equal(t, []string{"Party Popper"}, names(res.Records))
			repo.AssertExpectations(t)
		})
	}
}

func TestLoad_EmptyWhenNothingAvailable(t *testing.T) {
	repo := &memOverrideRepo{}
	bundle := new(mockBundle)
	bundle.On("Fetch", mock.Anything).Return("", errors.New("404"))

	svc := NewDatasetService(repo, bundle)
	res := svc.Load(context.Background())

	assert.Equal(t, domain.SourceNone, res.Source)
	assert.NotNil(t, res.Records)
	assert.Empty(t, res.Records)

	// nil bundle also degrades
	res = NewDatasetService(repo, nil).Load(context.Background())
	assert.Equal(t, domain.SourceNone, res.Source)
}

func TestLoad_IgnoresCancellation(t *testing.T) {
	repo := &memOverrideRepo{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	bundle := new(mockBundle)
	bundle.On("Fetch", mock.MatchedBy(func(c context.Context) bool { return c.Err() == nil })).Return(bundleCSV, nil)

	res := NewDatasetService(repo, bundle).Load(ctx)
	assert.Equal(t, domain.SourceBundle, res.Source)
	bundle.AssertExpectations(t)
}

func TestSave_RejectsEmptyAndKeepsPrior(t *testing.T) {
	ctx := context.Background()
	repo := &memOverrideRepo{}
	svc := NewDatasetService(repo, nil)

	_, err := svc.Save(ctx, overrideCSV)
	require.NoError(t, err)

	for _, raw := range []string{"", "slug,emoji,name\n", "slug,emoji,name\na,b\n"} {
		_, err := svc.Save(ctx, raw)
		require.Error(t, err)

		var verr *common.ValidationError
		assert.True(t, errors.As(err, &verr))
		assert.ErrorIs(t, err, common.ErrInvalidInput)
	}

	stored, ok, _ := repo.Get(ctx)
	assert.True(t, ok)
	assert.Equal(t, overrideCSV, stored)

	res := svc.Load(ctx)
	assert.Equal(t, []string{"Cool", "Grin"}, names(res.Records))
}

func TestSave_ReasonMentionsFirstSkippedRow(t *testing.T) {
	svc := NewDatasetService(&memOverrideRepo{}, nil)

	_, err := svc.Save(context.Background(), "slug,emoji,name\nonly,two\n")

	var verr *common.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, 1, verr.Skipped)
	assert.Contains(t, verr.Reason, "line 1")
	assert.Contains(t, verr.Reason, "too few columns")
}

func TestSave_StorageFailure(t *testing.T) {
	repo := new(mockOverrideRepo)
	repo.On("Put", mock.Anything, overrideCSV).Return(errors.New("read-only fs"))

	res, err := NewDatasetService(repo, nil).Save(context.Background(), overrideCSV)

	assert.ErrorIs(t, err, common.ErrStorageFailed)
	assert.False(t, errors.Is(err, common.ErrInvalidInput))
	assert.Len(t, res.Records, 2)
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	repo := &memOverrideRepo{}
	svc := NewDatasetService(repo, nil)

	// 빈 슬롯도 에러 아님
	assert.NoError(t, svc.Clear(ctx))

	_, err := svc.Save(ctx, overrideCSV)
	require.NoError(t, err)
	require.NoError(t, svc.Clear(ctx))

	res := svc.Load(ctx)
	assert.Equal(t, domain.SourceNone, res.Source)
	assert.Empty(t, res.Records)

	failing := new(mockOverrideRepo)
	failing.On("Delete", mock.Anything).Return(errors.New("boom"))
	assert.ErrorIs(t, NewDatasetService(failing, nil).Clear(ctx), common.ErrStorageFailed)
}

func TestExport(t *testing.T) {
	ctx := context.Background()
	repo := &memOverrideRepo{}
	svc := NewDatasetService(repo, staticBundle(bundleCSV))

	raw, source, err := svc.Export(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.SourceBundle, source)
	assert.Equal(t, bundleCSV, raw)

	_, err = svc.Save(ctx, overrideCSV)
	require.NoError(t, err)

	raw, source, err = svc.Export(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.SourceOverride, source)
	assert.Equal(t, overrideCSV, raw)

	_, _, err = NewDatasetService(&memOverrideRepo{}, nil).Export(ctx)
	assert.ErrorIs(t, err, common.ErrNoDataset)
}

func TestValidate_DoesNotPersist(t *testing.T) {
	repo := new(mockOverrideRepo)
	res := NewDatasetService(repo, nil).Validate(overrideCSV)

	assert.Len(t, res.Records, 2)
	repo.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
}

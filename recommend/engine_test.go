package recommend

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"platefinder/database/testdb"
	"platefinder/models"
	"platefinder/query"
)

type fakeStore struct {
	forUser    []models.Recommendation
	forUserErr error
	popular    []models.Recommendation
	popularErr error

	forUserCalls int
	popularCalls int
}

func (f *fakeStore) ForUser(_ context.Context, _ int64) ([]models.Recommendation, error) {
	f.forUserCalls++
	return f.forUser, f.forUserErr
}

func (f *fakeStore) Popular(_ context.Context, _ int) ([]models.Recommendation, error) {
	f.popularCalls++
	return f.popular, f.popularErr
}

func recs(names ...string) []models.Recommendation {
	out := make([]models.Recommendation, len(names))
	for i, n := range names {
		out[i] = models.Recommendation{RestaurantName: n, Rank: i + 1}
	}
	return out
}

func names(rs []models.Recommendation) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.RestaurantName
	}
	return out
}

func userID(id int64) *int64 { return &id }

var errDown = errors.New("connection refused")

func TestRecommendTiers(t *testing.T) {
	defaultNames := names(Defaults())

	tests := []struct {
		name        string
		store       *fakeStore
		user        *int64
		want        []string
		wantForUser int
	}{
		{
			name:        "personalized wins",
			store:       &fakeStore{forUser: recs("a", "b"), popular: recs("p")},
			user:        userID(1),
			want:        []string{"a", "b"},
			wantForUser: 1,
		},
		{
			name:        "empty personalized falls to popular",
			store:       &fakeStore{popular: recs("p1", "p2")},
			user:        userID(1),
			want:        []string{"p1", "p2"},
			wantForUser: 1,
		},
		{
			name:        "personalized error falls to popular",
			store:       &fakeStore{forUserErr: errDown, popular: recs("p1")},
			user:        userID(1),
			want:        []string{"p1"},
			wantForUser: 1,
		},
		{
			name:        "no user skips personalized",
			store:       &fakeStore{forUser: recs("a"), popular: recs("p1")},
			want:        []string{"p1"},
			wantForUser: 0,
		},
		{
			name:        "total failure serves built-in",
			store:       &fakeStore{forUserErr: errDown, popularErr: errDown},
			user:        userID(1),
			want:        defaultNames,
			wantForUser: 1,
		},
		{
			name:        "everything empty serves built-in",
			store:       &fakeStore{},
			want:        defaultNames,
			wantForUser: 0,
		},
		{
			name:        "popular capped",
			store:       &fakeStore{popular: recs("1", "2", "3", "4", "5", "6", "7", "8")},
			want:        []string{"1", "2", "3", "4", "5", "6"},
			wantForUser: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := New(tt.store).Recommend(context.Background(), tt.user)
			assert.Equal(t, tt.want, names(got))
			assert.Equal(t, tt.wantForUser, tt.store.forUserCalls)
		})
	}
}

func TestDefaults(t *testing.T) {
	d := Defaults()
	require.Len(t, d, 6)

	assert.Equal(t, []string{
		"Bella Italia", "Mumbai Spice", "La Parisienne",
		"Cancun Grill", "Bangkok Kitchen", "Athens Taverna",
	}, names(d))

	seen := map[int]bool{}
	for i, r := range d {
		assert.Equal(t, i+1, r.Rank)
		assert.False(t, seen[r.Rank], "duplicate rank %d", r.Rank)
		seen[r.Rank] = true
		assert.Equal(t, r.Rating, r.Score)
	}
	assert.Equal(t, "Mediterranean", d[5].RestaurantCategories)

	d[0].RestaurantName = "changed"
	assert.Equal(t, "Bella Italia", Defaults()[0].RestaurantName)
}

func TestRecommendSQLStore(t *testing.T) {
	db := testdb.NewSQLite(t)
	e := New(NewSQLStore(db, query.SQLite))
	ctx := context.Background()

	t.Run("personalized by rank", func(t *testing.T) {
		got := e.Recommend(ctx, userID(1))
		assert.Equal(t, []string{"Sakura Sushi", "Bangkok Garden", "Green Leaf"}, names(got))
		for i, r := range got {
			assert.Equal(t, i+1, r.Rank)
			assert.Equal(t, int64(1), r.UserID)
			assert.NotNil(t, r.GeneratedAt)
		}
	})

	t.Run("ranks beyond popular cut stay personal", func(t *testing.T) {
		got := e.Recommend(ctx, userID(3))
		require.Len(t, got, 6)
		assert.Equal(t, 7, got[5].Rank)
	})

	t.Run("user without list gets popular", func(t *testing.T) {
		got := e.Recommend(ctx, userID(2))
		require.Len(t, got, 6)
		scores := make([]float64, len(got))
		for i, r := range got {
			scores[i] = r.Score
			assert.LessOrEqual(t, r.Rank, PopularMaxRank)
		}
		assert.Equal(t, []float64{4.9, 4.8, 4.7, 4.6, 4.5, 4.4}, scores)
	})

	t.Run("anonymous gets popular", func(t *testing.T) {
		got := e.Recommend(ctx, nil)
		require.NotEmpty(t, got)
		assert.Equal(t, "Sakura Sushi", got[0].RestaurantName)
	})

	t.Run("closed database gets built-in", func(t *testing.T) {
		closed := testdb.NewSQLite(t)
		require.NoError(t, closed.Close())

		got := New(NewSQLStore(closed, query.SQLite)).Recommend(ctx, userID(1))
		assert.Equal(t, names(Defaults()), names(got))
	})
}

func TestSQLStoreErrors(t *testing.T) {
	db := testdb.NewSQLite(t)
	require.NoError(t, db.Close())
	s := NewSQLStore(db, query.SQLite)

	_, err := s.ForUser(context.Background(), 1)
	assert.Error(t, err)
	_, err = s.Popular(context.Background(), PopularLimit)
	assert.Error(t, err)
}

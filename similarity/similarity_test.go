package similarity

import (
	"context"
	"math"
	"testing"

	"github.com/procyon-rec/procyon/core"
	"github.com/procyon-rec/procyon/rating"
	"github.com/procyon-rec/procyon/store"
)

type fixture struct {
	kv      *store.MemoryStore
	keys    *core.KeyBuilder
	ratings *rating.Store
	engine  *Engine
}

func newFixture() *fixture {
	kv := store.NewMemoryStore()
	keys := core.NewKeyBuilder("test")
	return &fixture{
		kv:      kv,
		keys:    keys,
		ratings: rating.New(kv, keys),
		engine:  New(kv, keys),
	}
}

func (f *fixture) like(t *testing.T, user, item string) {
	t.Helper()
	if _, err := f.ratings.SetRating(context.Background(), user, item, true, false); err != nil {
		t.Fatal(err)
	}
}

func (f *fixture) dislike(t *testing.T, user, item string) {
	t.Helper()
	if _, err := f.ratings.SetRating(context.Background(), user, item, false, false); err != nil {
		t.Fatal(err)
	}
}

func TestPairwise(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		setup func(t *testing.T, f *fixture)
		want  float64
	}{
		{
			name: "identical ratings",
			setup: func(t *testing.T, f *fixture) {
				f.like(t, "a", "m1")
				f.like(t, "b", "m1")
				f.dislike(t, "a", "m2")
				f.dislike(t, "b", "m2")
			},
			want: 1,
		},
		{
			name: "opposite ratings",
			setup: func(t *testing.T, f *fixture) {
				f.like(t, "a", "m1")
				f.dislike(t, "b", "m1")
			},
			want: -1,
		},
		{
			name: "mixed",
			setup: func(t *testing.T, f *fixture) {
				f.like(t, "a", "m1")
				f.like(t, "b", "m1")
				f.like(t, "a", "m2")
				f.dislike(t, "b", "m2")
			},
			want: 0,
		},
		{
			name: "no overlap defaults to neutral",
			setup: func(t *testing.T, f *fixture) {
				f.like(t, "a", "m1")
				f.like(t, "b", "m2")
			},
			want: 0,
		},
		{
			name: "no ratings at all",
			setup: func(t *testing.T, f *fixture) {},
			want: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			tt.setup(t, f)

			got, err := f.engine.Pairwise(ctx, "a", "b")
			if err != nil {
				t.Fatalf("Pairwise error: %v", err)
			}
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("Pairwise(a, b) = %v, want %v", got, tt.want)
			}

			// 对称性
			rev, err := f.engine.Pairwise(ctx, "b", "a")
			if err != nil {
				t.Fatalf("Pairwise error: %v", err)
			}
			if rev != got {
				t.Errorf("Pairwise not symmetric: %v vs %v", got, rev)
			}

			if got < -1 || got > 1 {
				t.Errorf("Pairwise out of [-1,1]: %v", got)
			}
		})
	}
}

func TestRebuild(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	f.like(t, "a", "m1")
	f.like(t, "b", "m1")
	f.dislike(t, "c", "m1")

	if err := f.engine.Rebuild(ctx, "a"); err != nil {
		t.Fatalf("Rebuild error: %v", err)
	}

	simKey := f.keys.Similarity("a")
	if score, _ := f.kv.ZScore(ctx, simKey, "b"); score != 1 {
		t.Errorf("sim(a,b) = %v, want 1", score)
	}
	if score, _ := f.kv.ZScore(ctx, simKey, "c"); score != -1 {
		t.Errorf("sim(a,c) = %v, want -1", score)
	}
	// 自己绝不出现在自己的排名里
	if _, err := f.kv.ZScore(ctx, simKey, "a"); !core.IsStoreNotFound(err) {
		t.Errorf("user appears in own similarity ranking")
	}
}

func TestRebuild_FullReplace(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	f.like(t, "a", "m1")
	f.like(t, "b", "m1")
	if err := f.engine.Rebuild(ctx, "a"); err != nil {
		t.Fatal(err)
	}

	// b 撤销评分后重建：b 必须从排名中整体消失，而不是残留旧分数
	if _, err := f.ratings.SetRating(ctx, "b", "m1", true, true); err != nil {
		t.Fatal(err)
	}
	if err := f.engine.Rebuild(ctx, "a"); err != nil {
		t.Fatal(err)
	}
	if _, err := f.kv.ZScore(ctx, f.keys.Similarity("a"), "b"); !core.IsStoreNotFound(err) {
		t.Errorf("stale similarity entry survived full rebuild")
	}
}

func TestRebuild_NoRatings(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	// 先造一个排名，再把评分清空：排名应被删除
	f.like(t, "a", "m1")
	f.like(t, "b", "m1")
	if err := f.engine.Rebuild(ctx, "a"); err != nil {
		t.Fatal(err)
	}
	if _, err := f.ratings.SetRating(ctx, "a", "m1", true, true); err != nil {
		t.Fatal(err)
	}
	if err := f.engine.Rebuild(ctx, "a"); err != nil {
		t.Fatal(err)
	}
	if n, _ := f.kv.ZCard(ctx, f.keys.Similarity("a")); n != 0 {
		t.Errorf("similarity ranking not cleared for user without ratings")
	}
}

package popularity

import (
	"context"
	"math"
	"testing"

	"github.com/procyon-rec/procyon/core"
	"github.com/procyon-rec/procyon/store"
)

func TestWilsonLowerBound_KnownValue(t *testing.T) {
	// 1 个喜欢、0 个不喜欢、z=1.96 的经典值
	got := WilsonLowerBound(1, 0, 1.96)
	want := 0.2065
	if math.Abs(got-want) > 1e-4 {
		t.Errorf("WilsonLowerBound(1, 0, 1.96) = %v, want %v", got, want)
	}
}

func TestWilsonLowerBound_Range(t *testing.T) {
	tests := []struct {
		likes, dislikes int64
	}{
		{1, 0},
		{0, 1},
		{5, 5},
		{100, 1},
		{1, 100},
	}
	for _, tt := range tests {
		got := WilsonLowerBound(tt.likes, tt.dislikes, 1.96)
		if got < 0 || got > 1 {
			t.Errorf("WilsonLowerBound(%d, %d) = %v, out of [0,1]", tt.likes, tt.dislikes, got)
		}
	}
}

func TestWilsonLowerBound_MonotonicInRatio(t *testing.T) {
	// 固定 n=10，喜欢数增加时得分严格上升
	prev := WilsonLowerBound(0, 10, 1.96)
	for likes := int64(1); likes <= 10; likes++ {
		got := WilsonLowerBound(likes, 10-likes, 1.96)
		if got <= prev {
			t.Fatalf("score not strictly increasing at likes=%d: %v <= %v", likes, got, prev)
		}
		prev = got
	}
}

func TestWilsonLowerBound_MonotonicInEvidence(t *testing.T) {
	// 固定比例 p=0.5，样本量翻倍时得分严格向 p 收紧
	prev := WilsonLowerBound(1, 1, 1.96)
	for n := int64(2); n <= 512; n *= 2 {
		got := WilsonLowerBound(n, n, 1.96)
		if got <= prev {
			t.Fatalf("score not strictly increasing at n=%d: %v <= %v", 2*n, got, prev)
		}
		if got >= 0.5 {
			t.Fatalf("lower bound crossed p at n=%d: %v", 2*n, got)
		}
		prev = got
	}
}

func TestEngine_ZeroZUsesDefault(t *testing.T) {
	ctx := context.Background()
	keys := core.NewKeyBuilder("test")

	publish := func(z float64) float64 {
		kv := store.NewMemoryStore()
		engine := New(kv, keys)
		engine.Z = z
		kv.SAdd(ctx, keys.ItemLikedBy("m"), "u1")
		kv.SAdd(ctx, keys.ItemDislikedBy("m"), "u2")
		if err := engine.Rebuild(ctx, "m"); err != nil {
			t.Fatalf("Rebuild error: %v", err)
		}
		score, err := kv.ZScore(ctx, keys.Scoreboard(), "m")
		if err != nil {
			t.Fatalf("ZScore error: %v", err)
		}
		return score
	}

	// 零值表示"未设置"，等价于 DefaultZ
	if got, want := publish(0), WilsonLowerBound(1, 1, DefaultZ); got != want {
		t.Errorf("score with Z=0: %v, want %v", got, want)
	}
	// 显式设置的置信系数生效
	if got, want := publish(1.0), WilsonLowerBound(1, 1, 1.0); got != want {
		t.Errorf("score with Z=1.0: %v, want %v", got, want)
	}
}

func TestEngine_Rebuild(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryStore()
	keys := core.NewKeyBuilder("test")
	engine := New(kv, keys)

	// 没有任何评分的物品不上计分板
	if err := engine.Rebuild(ctx, "unrated"); err != nil {
		t.Fatalf("Rebuild(unrated) error: %v", err)
	}
	if n, _ := kv.ZCard(ctx, keys.Scoreboard()); n != 0 {
		t.Errorf("scoreboard size = %d, want 0", n)
	}

	// 两个喜欢，得分发布到计分板
	kv.SAdd(ctx, keys.ItemLikedBy("movie1"), "u1")
	kv.SAdd(ctx, keys.ItemLikedBy("movie1"), "u2")
	if err := engine.Rebuild(ctx, "movie1"); err != nil {
		t.Fatalf("Rebuild(movie1) error: %v", err)
	}
	score, err := kv.ZScore(ctx, keys.Scoreboard(), "movie1")
	if err != nil {
		t.Fatalf("ZScore error: %v", err)
	}
	want := WilsonLowerBound(2, 0, DefaultZ)
	if math.Abs(score-want) > 1e-12 {
		t.Errorf("scoreboard score = %v, want %v", score, want)
	}

	// 再来一个不喜欢，旧分数被覆盖
	kv.SAdd(ctx, keys.ItemDislikedBy("movie1"), "u3")
	if err := engine.Rebuild(ctx, "movie1"); err != nil {
		t.Fatalf("Rebuild error: %v", err)
	}
	score, _ = kv.ZScore(ctx, keys.Scoreboard(), "movie1")
	want = WilsonLowerBound(2, 1, DefaultZ)
	if math.Abs(score-want) > 1e-12 {
		t.Errorf("scoreboard score after dislike = %v, want %v", score, want)
	}
}

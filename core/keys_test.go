package core

import "testing"

func TestKeyBuilder(t *testing.T) {
	k := NewKeyBuilder("movie")

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"user liked", k.UserLiked("42"), "movie:user:42:liked"},
		{"user disliked", k.UserDisliked("42"), "movie:user:42:disliked"},
		{"item liked-by", k.ItemLikedBy("m1"), "movie:item:m1:liked"},
		{"item disliked-by", k.ItemDislikedBy("m1"), "movie:item:m1:disliked"},
		{"similarity", k.Similarity("42"), "movie:user:42:similarityZSet"},
		{"recommendations", k.Recommendations("42"), "movie:user:42:recommendedZSet"},
		{"scratch", k.ScratchAllLiked("42"), "movie:user:42:tempAllLikedSet"},
		{"most liked", k.MostLiked(), "movie:mostLiked"},
		{"most disliked", k.MostDisliked(), "movie:mostDisliked"},
		{"scoreboard", k.Scoreboard(), "movie:scoreboard"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.name, tt.got, tt.want)
		}
	}
}

func TestKeyBuilder_NamespaceIsolation(t *testing.T) {
	a := NewKeyBuilder("movies")
	b := NewKeyBuilder("books")
	if a.UserLiked("42") == b.UserLiked("42") {
		t.Error("different namespaces must not collide")
	}
}

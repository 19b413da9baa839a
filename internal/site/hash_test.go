package site

import (
	"errors"
	"reflect"
	"regexp"
	"testing"

	"github.com/kissit/website/internal/model"
)

var hexPrefix = regexp.MustCompile(`^[0-9a-f]{3}$`)

func TestShortHash(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"", "da3"},
		{"Acme Rockets", "875"},
		{"Globex", "f20"},
		{"Initech", "390"},
		{"kissit", "3f1"},
	}
	for _, tt := range tests {
		if got := ShortHash(tt.name); got != tt.want {
			t.Errorf("ShortHash(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestShortHashDeterministic(t *testing.T) {
	for _, s := range []string{"", "a", "Ünïcödé ✓", "Project 94", "with\nnewline"} {
		first := ShortHash(s)
		if !hexPrefix.MatchString(first) {
			t.Fatalf("ShortHash(%q) = %q, not 3 lowercase hex chars", s, first)
		}
		for i := 0; i < 10; i++ {
			if got := ShortHash(s); got != first {
				t.Fatalf("ShortHash(%q) changed between calls: %q then %q", s, first, got)
			}
		}
	}
}

func sampleProjects() model.Projects {
	return model.Projects{
		{Name: "Acme Rockets", Record: model.Record{"title": "Rockets"}},
		{Name: "Globex", Record: model.Record{"title": "Globex Corp"}},
		{Name: "Initech", Record: model.Record{}},
	}
}

func TestResolveRoundTrip(t *testing.T) {
	projects := sampleProjects()
	for _, p := range projects {
		got, err := Resolve(ShortHash(p.Name), projects)
		if err != nil {
			t.Fatalf("Resolve(%q): %v", ShortHash(p.Name), err)
		}
		if got.Name != p.Name || !reflect.DeepEqual(got.Record, p.Record) {
			t.Errorf("Resolve(ShortHash(%q)) = %+v, want %+v", p.Name, got, p)
		}
	}
}

func TestResolveNotFound(t *testing.T) {
	_, err := Resolve("zzz", sampleProjects())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Resolve(zzz) error = %v, want ErrNotFound", err)
	}
	if _, err := Resolve("875", nil); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Resolve on empty set error = %v, want ErrNotFound", err)
	}
}

// "Project 94" and "Project 106" both hash to "cfd".
func collidingProjects() model.Projects {
	return model.Projects{
		{Name: "Globex", Record: model.Record{}},
		{Name: "Project 94", Record: model.Record{"n": 94}},
		{Name: "Project 106", Record: model.Record{"n": 106}},
	}
}

func TestResolveCollisionFirstWins(t *testing.T) {
	projects := collidingProjects()
	if ShortHash("Project 94") != "cfd" || ShortHash("Project 106") != "cfd" {
		t.Fatalf("fixture names no longer collide")
	}
	got, err := Resolve("cfd", projects)
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "Project 94" {
		t.Errorf("Resolve(cfd) = %q, want the first in document order %q", got.Name, "Project 94")
	}

	// reversing the document order flips the winner
	reversed := model.Projects{projects[2], projects[1]}
	got, _ = Resolve("cfd", reversed)
	if got.Name != "Project 106" {
		t.Errorf("Resolve(cfd) on reversed set = %q, want %q", got.Name, "Project 106")
	}
}

func TestResolveNamed(t *testing.T) {
	projects := collidingProjects()
	tests := []struct {
		hash, name, want string
	}{
		{"cfd", "Project 106", "Project 106"},
		{"cfd", "Project 94", "Project 94"},
		{"cfd", "", "Project 94"},
		{"cfd", "Globex", "Project 94"}, // name does not hash to cfd
		{"cfd", "Project 7", "Project 94"},
		{"f20", "Globex", "Globex"},
	}
	for _, tt := range tests {
		got, err := ResolveNamed(tt.hash, tt.name, projects)
		if err != nil {
			t.Fatalf("ResolveNamed(%q, %q): %v", tt.hash, tt.name, err)
		}
		if got.Name != tt.want {
			t.Errorf("ResolveNamed(%q, %q) = %q, want %q", tt.hash, tt.name, got.Name, tt.want)
		}
	}
	if _, err := ResolveNamed("zzz", "Globex", projects); !errors.Is(err, ErrNotFound) {
		t.Errorf("ResolveNamed(zzz) error = %v, want ErrNotFound", err)
	}
}

func TestHashesAndCollisions(t *testing.T) {
	projects := collidingProjects()
	hashes := Hashes(projects)
	want := map[string]string{"Globex": "f20", "Project 94": "cfd", "Project 106": "cfd"}
	if !reflect.DeepEqual(hashes, want) {
		t.Errorf("Hashes() = %v, want %v", hashes, want)
	}

	collisions := Collisions(projects)
	wantCollisions := map[string][]string{"cfd": {"Project 94", "Project 106"}}
	if !reflect.DeepEqual(collisions, wantCollisions) {
		t.Errorf("Collisions() = %v, want %v", collisions, wantCollisions)
	}
	if got := Collisions(sampleProjects()); len(got) != 0 {
		t.Errorf("Collisions() on distinct hashes = %v, want none", got)
	}
}

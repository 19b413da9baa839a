package site

import (
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/kissit/website/internal/model"
)

// ShortHashLen is the number of hex characters kept from the SHA-1 digest.
// Twelve bits collide easily; Collisions reports the clashes of a project set.
const ShortHashLen = 3

var ErrNotFound = errors.New("project not found")

// ShortHash returns the first ShortHashLen lowercase hex characters of the
// SHA-1 digest of name.
func ShortHash(name string) string {
	sum := sha1.Sum([]byte(name))
	return hex.EncodeToString(sum[:])[:ShortHashLen]
}

// Resolve returns the first project, in document order, whose name hashes to hash.
func Resolve(hash string, projects model.Projects) (model.Project, error) {
	for _, p := range projects {
		if ShortHash(p.Name) == hash {
			return p, nil
		}
	}
	return model.Project{}, fmt.Errorf("no project with hash %q: %w", hash, ErrNotFound)
}

// ResolveNamed prefers the project called name when it hashes to hash and
// falls back to Resolve otherwise.
func ResolveNamed(hash, name string, projects model.Projects) (model.Project, error) {
	if name != "" && ShortHash(name) == hash {
		for _, p := range projects {
			if p.Name == name {
				return p, nil
			}
		}
	}
	return Resolve(hash, projects)
}

// Hashes maps every project name to its short hash.
func Hashes(projects model.Projects) map[string]string {
	hashes := make(map[string]string, len(projects))
	for _, p := range projects {
		hashes[p.Name] = ShortHash(p.Name)
	}
	return hashes
}

// Collisions maps each short hash shared by more than one project to the
// names sharing it, in document order.
func Collisions(projects model.Projects) map[string][]string {
	byHash := make(map[string][]string)
	for _, p := range projects {
		h := ShortHash(p.Name)
		byHash[h] = append(byHash[h], p.Name)
	}
	collisions := make(map[string][]string)
	for h, names := range byHash {
		if len(names) > 1 {
			collisions[h] = names
		}
	}
	return collisions
}

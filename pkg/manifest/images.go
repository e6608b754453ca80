package manifest

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/distribution/reference"
)

// Image is one entry of the container image inventory.
type Image struct {
	// Repository is the familiar repository name without tag or digest.
	Repository string `json:"repository"`

	// Tag is the image tag, empty for digest-only references.
	Tag string `json:"tag,omitempty"`

	// Digest is set for pinned references.
	Digest string `json:"digest,omitempty"`

	// Locations lists the containers using the image.
	Locations []string `json:"locations"`
}

// inventory accumulates container image references with the containers
// that use them.
type inventory struct {
	locations map[string][]string
}

func newInventory() *inventory {
	return &inventory{locations: make(map[string][]string)}
}

func (inv *inventory) record(imageRef, location string) {
	if imageRef == "" {
		return
	}
	inv.locations[imageRef] = append(inv.locations[imageRef], location)
}

// sorted parses the accumulated references and returns the inventory
// ordered by repository, then tag. References that do not parse keep their
// raw string as repository so they stay visible in reports.
func (inv *inventory) sorted() []Image {
	images := make([]Image, 0, len(inv.locations))
	for ref, locations := range inv.locations {
		img := Image{Repository: ref}
		named, err := reference.ParseNormalizedNamed(ref)
		if err != nil {
			slog.Warn("unparseable image reference", "image", ref, "error", err)
		} else {
			img.Repository = reference.FamiliarName(named)
			if tagged, ok := named.(reference.Tagged); ok {
				img.Tag = tagged.Tag()
			}
			if digested, ok := named.(reference.Digested); ok {
				img.Digest = digested.Digest().String()
			}
		}
		sort.Strings(locations)
		img.Locations = unique(locations)
		images = append(images, img)
	}
	sort.Slice(images, func(i, j int) bool {
		if images[i].Repository != images[j].Repository {
			return images[i].Repository < images[j].Repository
		}
		return images[i].Tag < images[j].Tag
	})
	return images
}

func unique(sorted []string) []string {
	out := sorted[:0]
	for _, s := range sorted {
		if len(out) == 0 || out[len(out)-1] != s {
			out = append(out, s)
		}
	}
	return out
}

// Ref reassembles the reference in repository:tag form.
func (i Image) Ref() string {
	var b strings.Builder
	b.WriteString(i.Repository)
	if i.Tag != "" {
		b.WriteString(":")
		b.WriteString(i.Tag)
	}
	if i.Digest != "" {
		b.WriteString("@")
		b.WriteString(i.Digest)
	}
	return b.String()
}

// Package models defines the journal entry ("thought") types exchanged with
// the backend and the image descriptor produced by the ingestion pipeline.
package models

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

type Visibility string

const (
	VisibilityPublic   Visibility = "public"
	VisibilityPrivate  Visibility = "private"
	VisibilityUnlisted Visibility = "unlisted"
)

var ErrUnknownVisibility = errors.New("unknown visibility")

func ParseVisibility(s string) (Visibility, error) {
	switch v := Visibility(strings.ToLower(strings.TrimSpace(s))); v {
	case "":
		return VisibilityPublic, nil
	case VisibilityPublic, VisibilityPrivate, VisibilityUnlisted:
		return v, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownVisibility, s)
}

// ThoughtImage is an uploaded image as referenced by a thought. Once
// returned by the uploader it is never modified; edits that keep an image
// carry the same value forward.
type ThoughtImage struct {
	URL      string `json:"url"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	BlurHash string `json:"blurhash,omitempty"`
}

// AspectRatio is width/height, or 1 when the height is unknown.
func (i ThoughtImage) AspectRatio() float64 {
	if i.Height <= 0 {
		return 1
	}
	return float64(i.Width) / float64(i.Height)
}

var ErrIncorrectImageRef = errors.New("image reference must be url|WIDTHxHEIGHT[|blurhash]")

// ParseImageRef reads an already uploaded image written as
// "url|WIDTHxHEIGHT" with an optional "|blurhash" suffix. The hash is taken
// verbatim since its alphabet includes '|'.
func ParseImageRef(s string) (ThoughtImage, error) {
	parts := strings.SplitN(s, "|", 3)
	if len(parts) < 2 || parts[0] == "" {
		return ThoughtImage{}, ErrIncorrectImageRef
	}
	ws, hs, ok := strings.Cut(parts[1], "x")
	if !ok {
		return ThoughtImage{}, ErrIncorrectImageRef
	}
	w, err := strconv.Atoi(ws)
	if err != nil || w <= 0 {
		return ThoughtImage{}, ErrIncorrectImageRef
	}
	h, err := strconv.Atoi(hs)
	if err != nil || h <= 0 {
		return ThoughtImage{}, ErrIncorrectImageRef
	}

	img := ThoughtImage{URL: parts[0], Width: w, Height: h}
	if len(parts) == 3 {
		img.BlurHash = parts[2]
	}
	return img, nil
}

type Thought struct {
	ID         string         `json:"id"`
	Content    string         `json:"content"`
	Images     []ThoughtImage `json:"images"`
	Tags       []string       `json:"tags"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
	Visibility Visibility     `json:"visibility,omitempty"`
}

type CreateThoughtRequest struct {
	Content    string         `json:"content"`
	Images     []ThoughtImage `json:"images"`
	Tags       []string       `json:"tags"`
	Visibility Visibility     `json:"visibility,omitempty"`
}

// UpdateThoughtRequest sends only the fields that are set.
type UpdateThoughtRequest struct {
	Content    *string         `json:"content,omitempty"`
	Images     *[]ThoughtImage `json:"images,omitempty"`
	Tags       *[]string       `json:"tags,omitempty"`
	Visibility *Visibility     `json:"visibility,omitempty"`
}

// APIResponse is the backend envelope; Code 0 means success.
type APIResponse[T any] struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data *T     `json:"data"`
}

func (r APIResponse[T]) IsSuccess() bool { return r.Code == 0 }

// PaginatedResponse is one page of a list endpoint.
type PaginatedResponse[T any] struct {
	Data       []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// HasMore reports whether a later page exists.
func (p Pagination) HasMore() bool { return p.Page < p.TotalPages }

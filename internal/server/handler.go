package server

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Response prefixes.
const (
	respValue    = "VALUE"
	respNotFound = "NOT_FOUND"
	respOK       = "OK"
	respLen      = "LEN"
	respErr      = "ERR"
)

var (
	errEmptyRequest = errors.New("empty request")
	errMissingKey   = errors.New("missing key")
	errMissingTTL   = errors.New("missing ttl")
	errTrailing     = errors.New("unexpected arguments")
)

// Store is the cache surface the server uses. *sieve.TTL[string, []byte]
// implements it.
type Store interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration)
	Evict(key string)
	Len() int
}

// Handler executes protocol requests against a Store.
type Handler struct {
	store      Store
	defaultTTL time.Duration
}

// NewHandler creates a Handler. defaultTTL applies to SET requests whose ttl
// is "-".
func NewHandler(store Store, defaultTTL time.Duration) *Handler {
	return &Handler{store: store, defaultTTL: defaultTTL}
}

// Handle executes one request and returns the response line without a
// trailing newline.
func (h *Handler) Handle(line string) string {
	resp, err := h.handle(strings.TrimRight(line, "\r\n"))
	if err != nil {
		return respErr + " " + err.Error()
	}
	return resp
}

func (h *Handler) handle(line string) (string, error) {
	verb, rest := nextField(line)
	if verb == "" {
		return "", errEmptyRequest
	}

	switch strings.ToUpper(verb) {
	case "GET":
		key, err := singleKey(rest)
		if err != nil {
			return "", err
		}
		return h.get(key), nil

	case "SET":
		key, rest := nextField(rest)
		if key == "" {
			return "", errMissingKey
		}
		rawTTL, value := nextField(rest)
		if rawTTL == "" {
			return "", errMissingTTL
		}
		ttl, err := h.parseTTL(rawTTL)
		if err != nil {
			return "", err
		}
		h.store.Set(key, []byte(value), ttl)
		return respOK, nil

	case "DEL":
		key, err := singleKey(rest)
		if err != nil {
			return "", err
		}
		h.store.Evict(key)
		return respOK, nil

	case "LEN":
		if strings.TrimSpace(rest) != "" {
			return "", errTrailing
		}
		return respLen + " " + strconv.Itoa(h.store.Len()), nil

	default:
		if strings.TrimSpace(rest) != "" {
			return "", fmt.Errorf("unknown command %q", verb)
		}
		return h.get(verb), nil
	}
}

func (h *Handler) get(key string) string {
	v, ok := h.store.Get(key)
	if !ok {
		return respNotFound
	}
	return respValue + " " + string(v)
}

func (h *Handler) parseTTL(raw string) (time.Duration, error) {
	if raw == "-" {
		return h.defaultTTL, nil
	}
	ttl, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid ttl: %w", err)
	}
	return ttl, nil
}

func singleKey(s string) (string, error) {
	key, rest := nextField(s)
	if key == "" {
		return "", errMissingKey
	}
	if strings.TrimSpace(rest) != "" {
		return "", errTrailing
	}
	return key, nil
}

// nextField splits off the first space-separated field of s.
func nextField(s string) (field, rest string) {
	s = strings.TrimLeft(s, " ")
	field, rest, _ = strings.Cut(s, " ")
	return field, rest
}

package sieve

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type SieveSuite struct {
	suite.Suite
}

func TestSieveSuite(t *testing.T) {
	suite.Run(t, new(SieveSuite))
}

func (s *SieveSuite) setVisited(e *sieveEvictor[string], key string, visited bool) {
	h, ok := e.q.lookup(key)
	s.Require().True(ok, "missing key %s", key)
	e.q.at(h).visited = visited
}

func (s *SieveSuite) handleOf(e *sieveEvictor[string], key string) handle {
	h, ok := e.q.lookup(key)
	s.Require().True(ok, "missing key %s", key)
	return h
}

func (s *SieveSuite) TestEvictionScenario() {
	e := newSieveEvictor[string](7)

	// G*FEDCB*A*
	for _, k := range []string{"A", "B", "C", "D", "E", "F", "G"} {
		e.touch(k)
	}
	s.Equal([]string{"G", "F", "E", "D", "C", "B", "A"}, e.keys())

	s.setVisited(e, "A", true)
	s.setVisited(e, "B", true)
	s.setVisited(e, "C", false)
	s.setVisited(e, "D", false)
	s.setVisited(e, "E", false)
	s.setVisited(e, "F", false)
	s.setVisited(e, "G", true)
	e.hand = s.handleOf(e, "A")

	var evicted []string
	for _, k := range []string{"H", "A", "D", "I", "B", "J"} {
		if victim, ok := e.touch(k); ok {
			evicted = append(evicted, victim)
		}
	}

	s.Equal([]string{"J", "I", "H", "G", "D", "B", "A"}, e.keys())
	s.Equal([]bool{false, false, false, true, false, true, true}, e.q.visited())
	s.Equal([]string{"C", "E", "F"}, evicted)
}

func (s *SieveSuite) TestTouchExistingKeepsPosition() {
	e := newSieveEvictor[string](3)
	e.touch("a")
	e.touch("b")
	e.touch("c")

	_, evicted := e.touch("a")

	s.False(evicted)
	s.Equal([]string{"c", "b", "a"}, e.keys())
	s.Equal([]bool{false, false, true}, e.q.visited())
}

func (s *SieveSuite) TestEvictEmpty() {
	e := newSieveEvictor[string](3)

	_, ok := e.evict()

	s.False(ok)
	s.Equal(nilHandle, e.hand)
	s.Empty(e.keys())
	s.Equal(0, e.len())
}

func (s *SieveSuite) TestEvictUnvisitedTailFirst() {
	e := newSieveEvictor[string](3)
	e.touch("a")
	e.touch("b")
	e.touch("c")

	victim, ok := e.touch("d")

	s.True(ok)
	s.Equal("a", victim)
	s.Equal([]string{"d", "c", "b"}, e.keys())
}

func (s *SieveSuite) TestSingleEntryWrapAround() {
	e := newSieveEvictor[string](1)
	e.touch("a")
	e.touch("a")
	s.Equal([]bool{true}, e.q.visited())

	victim, ok := e.touch("b")

	s.True(ok)
	s.Equal("a", victim)
	s.Equal([]string{"b"}, e.keys())
	s.Equal([]bool{false}, e.q.visited())
}

func (s *SieveSuite) TestAllVisitedFullPass() {
	e := newSieveEvictor[string](3)
	for _, k := range []string{"a", "b", "c"} {
		e.touch(k)
		e.touch(k)
	}

	victim, ok := e.touch("d")

	s.True(ok)
	s.Equal("a", victim, "a full pass clears every bit and returns to the tail")
	s.Equal([]bool{false, false, false}, e.q.visited())
}

func (s *SieveSuite) TestHandMovesToNewerNeighbour() {
	e := newSieveEvictor[string](3)
	e.touch("a")
	e.touch("b")
	e.touch("c")
	e.mark("a")

	victim, ok := e.touch("d")

	s.True(ok)
	s.Equal("b", victim)
	s.Equal(s.handleOf(e, "c"), e.hand)
}

func (s *SieveSuite) TestRemoveAdjustsHand() {
	e := newSieveEvictor[string](3)
	e.touch("a")
	e.touch("b")
	e.touch("c")
	e.mark("a")
	e.touch("d") // evicts b, hand -> c
	s.Equal([]string{"d", "c", "a"}, e.keys())

	e.remove("c")
	s.Equal(s.handleOf(e, "d"), e.hand)

	e.touch("x")
	victim, ok := e.touch("y")

	s.True(ok)
	s.Equal("d", victim)
	s.Equal([]string{"y", "x", "a"}, e.keys())
}

func (s *SieveSuite) TestHandResetWhenQueueEmpties() {
	e := newSieveEvictor[string](2)
	e.touch("a")
	e.touch("b")

	victim, ok := e.evict()
	s.True(ok)
	s.Equal("a", victim)
	s.Equal(s.handleOf(e, "b"), e.hand)

	e.remove("b")
	s.Equal(nilHandle, e.hand)
	s.Equal(0, e.len())

	e.touch("c")
	e.touch("d")
	victim, ok = e.touch("e")

	s.True(ok)
	s.Equal("c", victim)
	s.Equal([]string{"e", "d"}, e.keys())
}

func (s *SieveSuite) TestEvictLastEntryClearsHand() {
	e := newSieveEvictor[string](1)
	e.touch("a")

	victim, ok := e.evict()

	s.True(ok)
	s.Equal("a", victim)
	s.Equal(nilHandle, e.hand)

	e.touch("b")
	s.Equal([]string{"b"}, e.keys())
}

func (s *SieveSuite) TestRemoveAbsent() {
	e := newSieveEvictor[string](2)
	e.touch("a")

	e.remove("zz")

	s.Equal([]string{"a"}, e.keys())
}

func (s *SieveSuite) TestMarkDoesNotInsert() {
	e := newSieveEvictor[string](2)

	e.mark("a")

	s.Equal(0, e.len())
}

func (s *SieveSuite) TestReset() {
	e := newSieveEvictor[string](2)
	e.touch("a")
	e.touch("b")
	e.evict()

	e.reset()

	s.Equal(0, e.len())
	s.Equal(nilHandle, e.hand)
}

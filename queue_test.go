package sieve

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type QueueSuite struct {
	suite.Suite
	q *queue[string]
}

func (s *QueueSuite) SetupTest() {
	s.q = newQueue[string](4)
}

func TestQueueSuite(t *testing.T) {
	suite.Run(t, new(QueueSuite))
}

func (s *QueueSuite) TestPushFrontOrder() {
	s.q.pushFront("a")
	s.q.pushFront("b")
	s.q.pushFront("c")

	s.Equal([]string{"c", "b", "a"}, s.q.keys())
	s.Equal(3, s.q.len())
}

func (s *QueueSuite) TestUnlinkMiddle() {
	s.q.pushFront("a")
	h := s.q.pushFront("b")
	s.q.pushFront("c")

	s.Equal("b", s.q.unlink(h))
	s.Equal([]string{"c", "a"}, s.q.keys())

	_, ok := s.q.lookup("b")
	s.False(ok)
}

func (s *QueueSuite) TestUnlinkEnds() {
	a := s.q.pushFront("a")
	s.q.pushFront("b")
	c := s.q.pushFront("c")

	s.q.unlink(a)
	s.Equal("b", s.q.at(s.q.tail).key)

	s.q.unlink(c)
	s.Equal(s.q.head, s.q.tail)
	s.Equal([]string{"b"}, s.q.keys())
}

func (s *QueueSuite) TestUnlinkLast() {
	h := s.q.pushFront("a")
	s.q.unlink(h)

	s.Equal(nilHandle, s.q.head)
	s.Equal(nilHandle, s.q.tail)
	s.Empty(s.q.keys())
}

func (s *QueueSuite) TestSlotsRecycled() {
	s.q.pushFront("a")
	b := s.q.pushFront("b")
	s.q.pushFront("c")

	s.q.unlink(b)
	d := s.q.pushFront("d")

	s.Equal(b, d, "freed slot should be reused")
	s.Len(s.q.nodes, 3)
	s.Equal([]string{"d", "c", "a"}, s.q.keys())
}

func (s *QueueSuite) TestMoveToFront() {
	a := s.q.pushFront("a")
	s.q.pushFront("b")
	s.q.pushFront("c")
	s.q.at(a).visited = true

	s.q.moveToFront(a)

	s.Equal([]string{"a", "c", "b"}, s.q.keys())
	s.Equal([]bool{true, false, false}, s.q.visited())
	s.Equal("b", s.q.at(s.q.tail).key)
}

func (s *QueueSuite) TestReset() {
	s.q.pushFront("a")
	s.q.pushFront("b")

	s.q.reset()

	s.Equal(0, s.q.len())
	s.Empty(s.q.keys())
	s.Equal(nilHandle, s.q.head)
	s.Equal(nilHandle, s.q.tail)

	s.q.pushFront("c")
	s.Equal([]string{"c"}, s.q.keys())
}

package cacher

import (
	"crypto/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"
)

type ConstSuite struct {
	suite.Suite
}

func (s *ConstSuite) TestConst() {
	s.Require().Panics(func() {
		NewConst[int](nil)
	})

	bCacher := NewConst(func() *[]byte {
		b := make([]byte, 8)
		n, err := rand.Read(b)
		s.Require().Equal(8, n)
		s.Require().Nil(err)
		return &b
	})
	s.Require().False(bCacher.IsLoaded())

	values := make([]*[]byte, 20)
	var wg sync.WaitGroup
	for k := 0; k < 20; k++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			values[i] = bCacher.Get()
		}(k)
	}
	wg.Wait()

	s.Require().True(bCacher.IsLoaded())
	for k := 1; k < 20; k++ {
		s.Require().Same(values[0], values[k])
	}

	bCacher.Clear()
	s.Require().False(bCacher.IsLoaded())
	s.Require().NotSame(values[0], bCacher.Get())
}

func (s *ConstSuite) TestLoadsOnce() {
	calls := 0
	c := NewConst(func() int {
		calls++
		return 42
	})
	s.Require().Equal(42, c.Get())
	s.Require().Equal(42, c.Get())
	s.Require().Equal(1, calls)
}

func TestConst(t *testing.T) {
	suite.Run(t, new(ConstSuite))
}

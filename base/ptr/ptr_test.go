package ptr

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type pointerSuite struct {
	suite.Suite
}

func (s *pointerSuite) TestPointer() {
	now := time.Unix(1700000000, 0)

	s.Equal(`0xabc`, *String(`0xabc`))
	s.Equal(int32(600), *Int32(600))
	s.Equal(int64(-1), *Int64(-1))
	s.Equal(int64(42), *Int64(42))
	s.Equal(false, *Bool(false))
	s.True(now.Equal(*Time(now)))
}

func (s *pointerSuite) TestDistinct() {
	a, b := Int64(1), Int64(1)
	s.NotSame(a, b)
	*a = 2
	s.Equal(int64(1), *b)
}

func TestPointerSuite(t *testing.T) {
	suite.Run(t, new(pointerSuite))
}

package history

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
)

type RedisRepositoryTestSuite struct {
	suite.Suite
	mr     *miniredis.Miniredis
	client *redis.Client
	repo   Repository
}

func (s *RedisRepositoryTestSuite) SetupTest() {
	mr, err := miniredis.Run()
	s.Require().NoError(err)
	s.mr = mr

	s.client = redis.NewClient(&redis.Options{
		Addr: s.mr.Addr(),
	})

	repo, err := NewRedis(&Config{
		RedisClient: s.client,
	})
	s.Require().NoError(err)
	s.repo = repo
}

func (s *RedisRepositoryTestSuite) TearDownTest() {
	s.client.Close()
	s.mr.Close()
}

func TestRedisRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RedisRepositoryTestSuite))
}

func (s *RedisRepositoryTestSuite) TestEmptyLog() {
	output, err := s.repo.GetAll(context.Background(), &GetAllInput{})
	s.Require().NoError(err)
	s.Empty(output.Summaries)
}

func (s *RedisRepositoryTestSuite) TestAppendPreservesOrder() {
	ctx := context.Background()

	for _, summary := range []string{"primera", "segunda", "tercera"} {
		err := s.repo.Append(ctx, &AppendInput{Summary: summary})
		s.Require().NoError(err)
	}

	output, err := s.repo.GetAll(ctx, &GetAllInput{})
	s.Require().NoError(err)
	s.Equal([]string{"primera", "segunda", "tercera"}, output.Summaries)
}

func (s *RedisRepositoryTestSuite) TestRejectsEmptySummary() {
	err := s.repo.Append(context.Background(), &AppendInput{})
	s.Error(err)
}

package persistence

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"

	"github.com/pjackim/webbuddy/internal/application/service"
	"github.com/pjackim/webbuddy/internal/domain/media"
)

type MediaInfoCacheIntegrationTestSuite struct {
	suite.Suite
	container *tcredis.RedisContainer
	rdb       *redis.Client
	cache     service.MetadataCache
}

func (s *MediaInfoCacheIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	if err != nil {
		s.T().Fatalf("Failed to start redis container: %s", err)
	}
	s.container = container

	uri, err := container.ConnectionString(ctx)
	if err != nil {
		s.T().Fatalf("Failed to get connection string: %s", err)
	}
	opts, err := redis.ParseURL(uri)
	if err != nil {
		s.T().Fatalf("Failed to parse redis url: %s", err)
	}
	s.rdb = redis.NewClient(opts)
	s.cache = NewRedisMediaInfoCache(s.rdb)
}

func (s *MediaInfoCacheIntegrationTestSuite) TearDownSuite() {
	if s.rdb != nil {
		s.rdb.Close()
	}
	if s.container != nil {
		if err := s.container.Terminate(context.Background()); err != nil {
			s.T().Fatalf("Failed to terminate redis container: %s", err)
		}
	}
}

func TestMediaInfoCacheIntegration(t *testing.T) {
	if testing.Short() || os.Getenv("INTEGRATION_TESTS") == "" {
		t.Skip("Skipping integration test; set INTEGRATION_TESTS to run.")
	}
	suite.Run(t, new(MediaInfoCacheIntegrationTestSuite))
}

func (s *MediaInfoCacheIntegrationTestSuite) Test_Set_And_Get() {
	ctx := context.Background()
	w, h, c := 200, 150, 3
	in := &media.Metadata{
		Filename:  "a.png",
		MimeType:  "image/png",
		Size:      1234,
		MediaType: media.TypeImage,
		Width:     &w,
		Height:    &h,
		Channels:  &c,
	}

	s.NoError(s.cache.Set(ctx, "media:info:a.png", in, time.Minute))

	out, found, err := s.cache.Get(ctx, "media:info:a.png")
	s.NoError(err)
	s.True(found)
	s.Equal(in, out)
}

func (s *MediaInfoCacheIntegrationTestSuite) Test_Get_Miss() {
	out, found, err := s.cache.Get(context.Background(), "media:info:missing.png")
	s.NoError(err)
	s.False(found)
	s.Nil(out)
}

func (s *MediaInfoCacheIntegrationTestSuite) Test_Entry_Expires() {
	ctx := context.Background()
	s.NoError(s.cache.Set(ctx, "media:info:short.png", &media.Metadata{Filename: "short.png"}, time.Second))

	s.Eventually(func() bool {
		_, found, err := s.cache.Get(ctx, "media:info:short.png")
		return err == nil && !found
	}, 5*time.Second, 100*time.Millisecond)
}

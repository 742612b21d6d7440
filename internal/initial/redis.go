package initial

import (
	"context"
	"fmt"
	"time"

	"github.com/Sunly24/Phone-Shop-POS-sub004/internal/config"
	"github.com/Sunly24/Phone-Shop-POS-sub004/pkg/redis"
	"github.com/Sunly24/Phone-Shop-POS-sub004/pkg/zlog"

	goredis "github.com/redis/go-redis/v9"
)

func init() {
	conf := config.GetConfig()

	client := goredis.NewClient(&goredis.Options{
		Addr:         fmt.Sprintf("%s:%d", conf.RedisConfig.Host, conf.RedisConfig.Port),
		Password:     conf.RedisConfig.Password,
		DB:           conf.RedisConfig.DB,
		PoolSize:     conf.RedisConfig.PoolSize,
		MinIdleConns: conf.RedisConfig.MinIdleConns,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		// Agent presence degrades gracefully without redis, keep booting.
		zlog.Warn("redis unavailable: " + err.Error())
	}

	redis.SetClient(client)
}

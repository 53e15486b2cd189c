package main

import (
	"log"
	"os"

	"haishublog/internal/auth"
	"haishublog/internal/persist"
	"haishublog/internal/router"
	"haishublog/internal/seed"
	"haishublog/internal/store"
	"haishublog/internal/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, finding env vars from system")
	}

	persister := newPersister()

	// 有快照用快照，没有则回退到种子内容
	initial, ok, err := persister.Load()
	if err != nil {
		log.Printf("Failed to load snapshot, falling back to seed: %v", err)
	}
	if !ok || initial == nil {
		log.Println("No persisted snapshot found, seeding initial content")
		initial = seed.Snapshot()
	}

	st := store.New(initial, newVerifier(), persister)

	// 选择器结果缓存，任何一次变更提交后整体失效
	cache := utils.NewCache(500)
	st.Subscribe(func(*store.Snapshot) {
		cache.Flush()
	})

	// Initialize Gin
	r := gin.Default()

	// Setup Sessions
	secret := os.Getenv("SESSION_SECRET")
	if secret == "" {
		secret = "secret_key_change_me"
	}
	sessionStore := cookie.NewStore([]byte(secret))
	r.Use(sessions.Sessions("haishublog_session", sessionStore))

	staticDir := os.Getenv("STATIC_DIR")
	if staticDir == "" {
		staticDir = "./web/dist"
	}

	router.RegisterRoutes(r, st, cache, staticDir)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("haishublog server starting on :%s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}

// newPersister 按 PERSIST_DRIVER 选择快照后端，默认本地 JSON 文件
func newPersister() store.Persister {
	switch os.Getenv("PERSIST_DRIVER") {
	case "postgres":
		dsn := os.Getenv("DATABASE_URL")
		if dsn == "" {
			// Fallback for local dev if not set
			dsn = "host=localhost user=postgres password=postgres dbname=haishublog port=5432 sslmode=disable"
		}
		p, err := persist.NewPostgresPersister(dsn)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		return p
	case "redis":
		addr := os.Getenv("REDIS_ADDR")
		if addr == "" {
			addr = "localhost:6379"
		}
		p, err := persist.NewRedisPersister(addr)
		if err != nil {
			log.Fatalf("Failed to connect to redis: %v", err)
		}
		return p
	default:
		path := os.Getenv("SNAPSHOT_FILE")
		if path == "" {
			path = "data/blog-storage.json"
		}
		return persist.NewFilePersister(path)
	}
}

// newVerifier 默认使用演示口令规则，AUTH_MODE=bcrypt 时启用真实哈希校验
func newVerifier() auth.Verifier {
	if os.Getenv("AUTH_MODE") == "bcrypt" {
		return auth.BcryptVerifier{}
	}
	log.Println("Using mock credential rules, do not expose this instance publicly")
	return auth.MockVerifier{}
}

// Package main 数据库初始化：建表、可选向量集合与演示数据
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/lib/pq"

	"lifex-api/internal/config"
	"lifex-api/internal/domain/entity"
	"lifex-api/internal/infrastructure/persistence/milvus"
	"lifex-api/internal/wire"
)

func main() {
	_ = godotenv.Load()

	fmt.Println("Starting system bootstrap...")

	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx := context.Background()

	// 2. 初始化数据层（仅 PostgreSQL）
	dataLayer, cleanup, err := wire.InitializePostgresOnly(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to initialize data layer: %v", err)
	}
	defer cleanup()

	// 3. 建表
	fmt.Println("Running schema migration...")
	err = dataLayer.PgClient.DB().AutoMigrate(
		&entity.User{},
		&entity.UsageCounter{},
		&entity.ConversationMessage{},
		&entity.Business{},
		&entity.Booking{},
		&entity.Ad{},
	)
	if err != nil {
		log.Fatalf("failed to migrate schema: %v", err)
	}

	// 4. 创建管理员账号
	adminEmail := os.Getenv("BOOTSTRAP_ADMIN_EMAIL")
	if adminEmail == "" {
		adminEmail = "admin@lifex.local"
	}
	adminPassword := os.Getenv("BOOTSTRAP_ADMIN_PASSWORD")
	if adminPassword == "" {
		adminPassword = "admin123" // 生产环境请务必通过环境变量设置
	}

	existing, err := dataLayer.UserRepo.GetByEmail(ctx, adminEmail)
	if err != nil {
		log.Fatalf("failed to check admin existence: %v", err)
	}
	if existing == nil {
		fmt.Printf("Creating admin user: %s...\n", adminEmail)
		admin := entity.NewUser(adminEmail, "System Admin")
		admin.Tier = entity.TierPremium
		if err := admin.SetPassword(adminPassword); err != nil {
			log.Fatalf("failed to hash admin password: %v", err)
		}
		if err := dataLayer.UserRepo.Create(ctx, admin); err != nil {
			log.Fatalf("failed to create admin user: %v", err)
		}
		fmt.Println("Admin user created successfully.")
	} else {
		fmt.Printf("Admin user %s already exists.\n", adminEmail)
	}

	// 5. 演示数据（仅当库里还没有商家时写入）
	if os.Getenv("BOOTSTRAP_SKIP_SEED") == "" {
		if err := seedDemoData(ctx, dataLayer); err != nil {
			log.Fatalf("failed to seed demo data: %v", err)
		}
	}

	// 6. 可选：创建 Milvus 集合与索引
	if cfg.Vector.Milvus.Enabled {
		if err := bootstrapMilvus(ctx, cfg); err != nil {
			// 向量检索是可选能力，失败不阻塞
			fmt.Printf("Milvus bootstrap skipped: %v\n", err)
		}
	}

	fmt.Println("Bootstrap completed successfully.")
}

func seedDemoData(ctx context.Context, dataLayer *wire.PostgresOnlyDataLayer) error {
	probe, err := dataLayer.BusinessRepo.TopRated(ctx, "", 1)
	if err != nil {
		return fmt.Errorf("failed to probe businesses: %w", err)
	}
	if len(probe) > 0 {
		fmt.Println("Businesses already present, skipping seed.")
		return nil
	}

	fmt.Println("Seeding demo businesses and ads...")

	businesses := []*entity.Business{
		{
			Name:        "Grind House Coffee",
			Category:    entity.CategoryCoffee,
			Tags:        pq.StringArray{"espresso", "brunch", "wifi"},
			Description: "Specialty coffee roasted in-house, with a quiet upstairs workspace.",
			Address:     "12 Flinders Lane",
			City:        "Melbourne",
			Latitude:    -37.8170,
			Longitude:   144.9650,
			Rating:      4.7,
			ReviewCount: 321,
			PriceLevel:  2,
			OpenHours:   "Mon-Sun 7:00-16:00",
			Active:      true,
		},
		{
			Name:        "Harbour Thai Kitchen",
			Category:    entity.CategoryRestaurant,
			Tags:        pq.StringArray{"thai", "dinner", "family"},
			Description: "Classic Thai dishes with a harbour view, generous lunch specials.",
			Address:     "88 Circular Quay",
			City:        "Sydney",
			Latitude:    -33.8610,
			Longitude:   151.2110,
			Rating:      4.5,
			ReviewCount: 208,
			PriceLevel:  2,
			OpenHours:   "Tue-Sun 11:30-22:00",
			Active:      true,
		},
		{
			Name:        "Iron Works Gym",
			Category:    entity.CategoryGym,
			Tags:        pq.StringArray{"24h", "weights", "classes"},
			Description: "24-hour gym with free weights, group classes and personal trainers.",
			Address:     "5 King Street",
			City:        "Melbourne",
			Latitude:    -37.8200,
			Longitude:   144.9580,
			Rating:      4.3,
			ReviewCount: 143,
			PriceLevel:  3,
			OpenHours:   "24/7",
			Active:      true,
		},
	}
	for _, b := range businesses {
		if err := dataLayer.BusinessRepo.Create(ctx, b); err != nil {
			return fmt.Errorf("failed to seed business %s: %w", b.Name, err)
		}
	}

	now := time.Now()
	ads := []*entity.Ad{
		{
			Title:     "Two-for-one flat whites this week",
			Body:      "Show this offer at Grind House Coffee before Sunday.",
			TargetURL: "https://example.com/offers/grind-house",
			Placement: entity.PlacementChat,
			Keywords:  pq.StringArray{"coffee", "cafe", "espresso"},
			Weight:    5,
			StartsAt:  now,
			EndsAt:    now.AddDate(0, 1, 0),
			Active:    true,
		},
		{
			Title:       "Free gym trial for premium members",
			Body:        "Seven days at Iron Works, no lock-in contract.",
			TargetURL:   "https://example.com/offers/iron-works",
			Placement:   entity.PlacementChat,
			TargetTiers: pq.StringArray{string(entity.TierPremium)},
			Keywords:    pq.StringArray{"gym", "fitness", "workout"},
			Weight:      3,
			StartsAt:    now,
			EndsAt:      now.AddDate(0, 1, 0),
			Active:      true,
		},
	}
	for _, ad := range ads {
		if err := dataLayer.AdRepo.Create(ctx, ad); err != nil {
			return fmt.Errorf("failed to seed ad %s: %w", ad.Title, err)
		}
	}

	fmt.Printf("Seeded %d businesses and %d ads.\n", len(businesses), len(ads))
	return nil
}

func bootstrapMilvus(ctx context.Context, cfg *config.Config) error {
	client, err := milvus.NewClient(ctx, &cfg.Vector.Milvus)
	if err != nil {
		return fmt.Errorf("milvus not reachable: %w", err)
	}
	defer client.Close()

	repo := milvus.NewRepository(client)

	exists, err := client.HasCollection(ctx, milvus.CollectionBusinessProfiles)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}
	if !exists {
		fmt.Println("Creating Milvus collection and index...")
		if err := repo.CreateCollection(ctx, milvus.BusinessProfilesSchema()); err != nil {
			return fmt.Errorf("failed to create collection: %w", err)
		}
		if err := repo.CreateIndex(ctx, milvus.CollectionBusinessProfiles); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	// 集合必须加载进内存才能被检索
	if err := client.LoadCollection(ctx, milvus.CollectionBusinessProfiles); err != nil {
		return fmt.Errorf("failed to load collection: %w", err)
	}
	fmt.Println("Milvus collection ready.")
	return nil
}

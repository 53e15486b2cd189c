package persist

import (
	"log"
	"time"

	"haishublog/internal/models"
	"haishublog/internal/store"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// snapshotState 单行元数据表，记录快照是否存在及 current_user
type snapshotState struct {
	ID            uint   `gorm:"primaryKey"`
	CurrentUserID string `gorm:"size:32"`
	SavedAt       time.Time
}

func (snapshotState) TableName() string { return "snapshot_state" }

// PostgresPersister 把快照展开成实体表整体替换写入。
// 快照很小（个人博客量级），全量替换比增量同步简单且不会出现半新半旧状态。
type PostgresPersister struct {
	db *gorm.DB
}

func NewPostgresPersister(dsn string) (*PostgresPersister, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	log.Println("Database connection established")

	if err := db.AutoMigrate(
		&models.User{},
		&models.Article{},
		&models.Comment{},
		&models.Notification{},
		&models.Favorite{},
		&snapshotState{},
	); err != nil {
		return nil, err
	}
	log.Println("Database migration completed")

	return &PostgresPersister{db: db}, nil
}

func (p *PostgresPersister) Save(snap *store.Snapshot) error {
	return p.db.Transaction(func(tx *gorm.DB) error {
		wipe := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		for _, m := range []interface{}{
			&models.User{}, &models.Article{}, &models.Comment{},
			&models.Notification{}, &models.Favorite{}, &snapshotState{},
		} {
			if err := wipe.Delete(m).Error; err != nil {
				return err
			}
		}

		if len(snap.Users) > 0 {
			if err := tx.Create(&snap.Users).Error; err != nil {
				return err
			}
		}
		if len(snap.Articles) > 0 {
			if err := tx.Create(&snap.Articles).Error; err != nil {
				return err
			}
		}
		if len(snap.Comments) > 0 {
			if err := tx.Create(&snap.Comments).Error; err != nil {
				return err
			}
		}
		if len(snap.Notifications) > 0 {
			if err := tx.Create(&snap.Notifications).Error; err != nil {
				return err
			}
		}

		var favorites []models.Favorite
		for userID, ids := range snap.Favorites {
			for _, articleID := range ids {
				favorites = append(favorites, models.Favorite{UserID: userID, ArticleID: articleID})
			}
		}
		if len(favorites) > 0 {
			if err := tx.Create(&favorites).Error; err != nil {
				return err
			}
		}

		state := snapshotState{ID: 1, SavedAt: time.Now()}
		if snap.CurrentUser != nil {
			state.CurrentUserID = snap.CurrentUser.ID
		}
		return tx.Create(&state).Error
	})
}

func (p *PostgresPersister) Load() (*store.Snapshot, bool, error) {
	var state snapshotState
	if err := p.db.First(&state, 1).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, false, nil
		}
		return nil, false, err
	}

	snap := &store.Snapshot{Favorites: make(map[string][]string)}
	if err := p.db.Order("created_at ASC").Find(&snap.Users).Error; err != nil {
		return nil, false, err
	}
	// 文章保持最新优先的存储顺序
	if err := p.db.Order("created_at DESC").Find(&snap.Articles).Error; err != nil {
		return nil, false, err
	}
	if err := p.db.Order("created_at ASC").Find(&snap.Comments).Error; err != nil {
		return nil, false, err
	}
	if err := p.db.Order("created_at DESC").Find(&snap.Notifications).Error; err != nil {
		return nil, false, err
	}

	var favorites []models.Favorite
	if err := p.db.Order("created_at ASC").Find(&favorites).Error; err != nil {
		return nil, false, err
	}
	for _, f := range favorites {
		snap.Favorites[f.UserID] = append(snap.Favorites[f.UserID], f.ArticleID)
	}

	if state.CurrentUserID != "" {
		for i := range snap.Users {
			if snap.Users[i].ID == state.CurrentUserID {
				u := snap.Users[i]
				snap.CurrentUser = &u
				break
			}
		}
	}
	return snap, true, nil
}

package main

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"io/fs"
	"log"
	"os"
	"sync/atomic"
	"time"

	"idlescape/content"
	"idlescape/db"
	luacontent "idlescape/internal/adapter/content/lua"
	httpadapter "idlescape/internal/adapter/http"
	metricsinmem "idlescape/internal/adapter/metrics/inmemory"
	gormrepo "idlescape/internal/adapter/repo/gorm"
	"idlescape/internal/adapter/repo/memory"
	"idlescape/internal/app/history"
	"idlescape/internal/app/play"
	"idlescape/internal/app/ports"
	"idlescape/internal/app/status"
	"idlescape/internal/config"
	"idlescape/internal/domain/game"

	"github.com/cloudwego/hertz/pkg/app/server"
)

type repos struct {
	characters interface {
		ports.CharacterRepository
		ports.CharacterLister
	}
	events ports.EventRepository
	tx     ports.TxManager
}

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	balance, err := config.LoadBalance(cfg.BalanceFile)
	if err != nil {
		log.Fatalf("balance: %v", err)
	}
	catalog, err := luacontent.Load(contentFS(cfg.ContentDir))
	if err != nil {
		log.Fatalf("load content: %v", err)
	}
	log.Printf("content loaded: %d actions, %d monsters, %d items", len(catalog.Actions), len(catalog.Monsters), len(catalog.Items))

	r := mustBuildRepos(cfg)
	kpiRecorder := metricsinmem.NewRecorder()

	manager := &play.Manager{
		TxManager:  r.tx,
		Characters: r.characters,
		Events:     r.events,
		Metrics:    kpiRecorder,
		Content:    catalog,
		Tuning:     balance.Tuning(),
		NewRoller:  rollerFactory(cfg.RNGSeed),
		Now:        time.Now,
	}

	h := httpadapter.Handler{
		Play:      manager,
		StatusUC:  status.UseCase{Characters: r.characters},
		RosterUC:  status.RosterUseCase{Characters: r.characters},
		HistoryUC: history.UseCase{Events: r.events},
		KPI:       kpiRecorder,
	}

	tickCtx, stopTicking := context.WithCancel(context.Background())
	go manager.Run(tickCtx, cfg.TickInterval)

	s := server.Default(server.WithHostPorts(cfg.HTTPAddr))
	h.RegisterRoutes(s)
	s.OnShutdown = append(s.OnShutdown, func(ctx context.Context) {
		stopTicking()
		if err := manager.CloseAll(ctx); err != nil {
			log.Printf("close sessions: %v", err)
		}
	})

	log.Printf("idlescape server listening on %s (tick %s)", cfg.HTTPAddr, cfg.TickInterval)
	s.Spin()
}

func mustBuildRepos(cfg config.Config) repos {
	if !cfg.UsesPostgres() {
		log.Println("IDLESCAPE_DB_DSN not set; using the in-memory store")
		store := memory.NewStore()
		return repos{
			characters: memory.NewCharacterRepo(store),
			events:     memory.NewEventRepo(store),
			tx:         memory.NewTxManager(store),
		}
	}

	database, err := gormrepo.OpenPostgres(cfg.DBDSN)
	if err != nil {
		log.Fatalf("open postgres: %v", err)
	}
	if err := gormrepo.ApplyMigrations(context.Background(), database, migrationsFS(cfg.MigrationsDir)); err != nil {
		log.Fatalf("apply migrations: %v", err)
	}
	log.Println("using postgres store")
	return repos{
		characters: gormrepo.NewCharacterRepo(database),
		events:     gormrepo.NewEventRepo(database),
		tx:         gormrepo.NewTxManager(database),
	}
}

// contentFS prefers a content directory on disk over the embedded catalog.
func contentFS(dir string) fs.FS {
	if dir == "" {
		return content.FS()
	}
	return os.DirFS(dir)
}

func migrationsFS(dir string) fs.FS {
	if dir == "" {
		return db.Migrations()
	}
	return os.DirFS(dir)
}

// rollerFactory hands every session its own stream. A zero seed draws the
// base seed from crypto/rand.
func rollerFactory(seed int64) func() game.Roller {
	if seed == 0 {
		var b [8]byte
		if _, err := rand.Read(b[:]); err == nil {
			seed = int64(binary.LittleEndian.Uint64(b[:]))
		} else {
			seed = time.Now().UnixNano()
		}
	}
	var n atomic.Int64
	return func() game.Roller {
		return game.NewRNG(seed + n.Add(1))
	}
}

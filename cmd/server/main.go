package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/memoryschool/portal/internal/accounts"
	"github.com/memoryschool/portal/internal/db"
	"github.com/memoryschool/portal/internal/notify"
	"github.com/memoryschool/portal/internal/registration"
	"github.com/memoryschool/portal/internal/storage"
	"github.com/memoryschool/portal/internal/web"
	"github.com/memoryschool/portal/internal/wizard"
)

func main() {
	// Init DB (creates portal.db in working dir unless PORTAL_DB is set)
	if err := db.Init(); err != nil {
		log.Fatalf("db init: %v", err)
	}

	baseURL := getEnv("BASE_URL", "http://localhost:8080")

	accountSvc := accounts.NewService(db.Conn())

	var provider notify.Provider
	if wa, err := notify.NewWhatsAppClient(); err == nil {
		provider = wa
	} else {
		log.Printf("whatsapp provider not configured, simulating delivery")
		provider = &notify.LogProvider{}
	}
	dispatcher := notify.NewDispatcher(db.Conn(), provider)

	photos := storage.NewDiskStore(getEnv("PHOTO_DIR", "photos"), baseURL)

	orc := &registration.Orchestrator{
		DB:          db.Conn(),
		Accounts:    accountSvc,
		Notifier:    dispatcher,
		Photos:      photos,
		BaseURL:     baseURL,
		CallTimeout: 10 * time.Second,
	}
	// Point the boundary calls at a separate deployment when configured.
	if fnBase := os.Getenv("FUNCTIONS_BASE_URL"); fnBase != "" {
		orc.Accounts = accounts.NewHTTPCreator(fnBase)
		orc.Notifier = notify.NewHTTPNotifier(fnBase)
	}

	drafts := wizard.NewStore(30 * time.Minute)
	drafts.StartJanitor()

	notify.StartReminderLoop(db.Conn(), dispatcher, baseURL+"/client/dashboard")

	r := web.Router(web.Deps{
		Drafts:       drafts,
		Accounts:     accountSvc,
		Dispatcher:   dispatcher,
		Orchestrator: orc,
		PhotoDir:     photos.Root(),
	})

	addr := getEnv("ADDR", ":8080")
	log.Printf("Memory School portal listening on %s", addr)
	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatal(err)
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

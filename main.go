package main

import (
	"flag"
	"log"
	"time"

	"hygio/config"
	"hygio/server"
)

func main() {
	checkDay := flag.String("check-day", "", "run the daily compliance check for YYYY-MM-DD and exit")
	flag.Parse()

	cfg := config.MustLoad()
	app := &server.App{}
	app.Initialize(cfg)

	// ручной перезапуск батча: идемпотентен, дубликатов алертов не будет
	if *checkDay != "" {
		day, err := time.Parse("2006-01-02", *checkDay)
		if err != nil {
			log.Fatalf("bad -check-day %q: %v", *checkDay, err)
		}
		if err := app.RunComplianceCheck(day); err != nil {
			log.Fatalf("compliance check: %v", err)
		}
		return
	}

	if err := app.Run(); err != nil {
		log.Fatal(err)
	}
}

package main

import (
	"flag"
	"log"

	"github.com/joho/godotenv"

	"github.com/talentbase/resumeflow/config"
	"github.com/talentbase/resumeflow/internal/models"
	"github.com/talentbase/resumeflow/scripts"
)

func main() {
	name := flag.String("tenant-name", "", "register a new tenant with this name")
	subdomain := flag.String("tenant-subdomain", "", "subdomain for the new tenant")
	schema := flag.String("tenant-schema", "", "schema name for the new tenant")
	flag.Parse()

	_ = godotenv.Load()

	if *name != "" || *subdomain != "" || *schema != "" {
		if *name == "" || *subdomain == "" || *schema == "" {
			log.Fatal("tenant-name, tenant-subdomain and tenant-schema must all be set")
		}
		if err := config.InitPostgres(); err != nil {
			log.Fatal(err)
		}
		if err := config.PostgresDB.AutoMigrate(&models.Tenant{}); err != nil {
			log.Fatal(err)
		}
		if err := scripts.CreateTenant(*name, *subdomain, *schema); err != nil {
			log.Fatal(err)
		}
		log.Printf("tenant %s provisioned on schema %s", *subdomain, *schema)
		return
	}

	scripts.Migrate()
}

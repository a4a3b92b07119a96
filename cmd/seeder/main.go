// cmd/seeder/main.go
package main

import (
	"database/sql"
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"

	_ "github.com/lib/pq"
)

// sampleLead mirrors one row of the recipient file. Rows with dbInsert
// false exist to exercise import validation and stay out of the leads
// table.
type sampleLead struct {
	name        string
	description string
	website     string
	phone       string
	mapsLink    string
	dbInsert    bool
}

func sampleLeads() []sampleLead {
	return []sampleLead{
		{"Coffee Paradise", "Local coffee shop with artisan drinks", "", "+12025551001", "https://maps.google.com/?q=CoffeeParadise", true},
		{"Tech Solutions Inc", "IT consulting and software development", "https://techsolutions.com", "+12025551002", "https://maps.google.com/?q=TechSolutions", true},
		{"Green Garden Restaurant", "Organic farm-to-table dining", "", "+12025551003", "https://maps.google.com/?q=GreenGarden", true},
		{"Digital Marketing Pro", "SEO and social media marketing", "https://digitalmarketingpro.com", "+12025551004", "https://maps.google.com/?q=DigitalMarketing", true},
		{"Fitness Center Plus", "Modern gym with personal training", "https://fitnessplus.com", "+12025551005", "https://maps.google.com/?q=FitnessPlus", true},
		{"Book Haven", "Independent bookstore", "", "+12025551006", "https://maps.google.com/?q=BookHaven", true},
		{"Auto Repair Shop", "Full service auto repair", "", "+12025551007", "https://maps.google.com/?q=AutoRepair", true},
		{"Fashion Boutique", "Trendy clothing and accessories", "https://fashionboutique.shop", "+12025551008", "https://maps.google.com/?q=FashionBoutique", true},
		{"Pet Grooming Service", "Professional pet care", "", "+12025551009", "https://maps.google.com/?q=PetGrooming", true},
		{"Home Cleaning Experts", "Residential and commercial cleaning", "https://cleanexperts.com", "+12025551010", "https://maps.google.com/?q=CleanExperts", true},
		{"", "Test business", "", "+12025551011", "", false},
		{"Invalid Phone Business", "Testing invalid phone", "https://example.com", "invalid", "", false},
		{"Bad Website URL", "Testing bad website", "not a valid url", "+12025551012", "https://maps.google.com/?q=TestBusiness", false},
	}
}

func main() {
	path := filepath.Join("data", "recipients.csv")
	leads := sampleLeads()

	if err := writeCSV(path, leads); err != nil {
		log.Fatalf("failed to write %s: %v", path, err)
	}
	fmt.Printf("Seeded: %s (%d rows)\n", path, len(leads))

	dsn := os.Getenv("LEADS_DSN")
	if dsn == "" {
		dsn = os.Getenv("DATABASE_URL")
	}
	if dsn == "" {
		fmt.Println("LEADS_DSN not set, skipping database seeding")
		return
	}

	if err := seedDatabase(dsn, leads); err != nil {
		log.Fatal(err)
	}
	fmt.Println("Database seeding completed successfully!")
}

func writeCSV(path string, leads []sampleLead) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"Business Name", "Description", "Website", "Phone", "Google Maps Link"}); err != nil {
		return err
	}
	for _, l := range leads {
		if err := w.Write([]string{l.name, l.description, l.website, l.phone, l.mapsLink}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

const leadsSchema = `
CREATE TABLE IF NOT EXISTS leads (
    id SERIAL PRIMARY KEY,
    phone TEXT NOT NULL,
    business_name TEXT NOT NULL,
    description TEXT,
    website TEXT,
    google_maps_link TEXT
)`

func seedDatabase(dsn string, leads []sampleLead) error {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}

	if _, err := db.Exec(leadsSchema); err != nil {
		return fmt.Errorf("failed to create leads table: %w", err)
	}

	inserted := 0
	for _, l := range leads {
		if !l.dbInsert {
			continue
		}
		_, err := db.Exec(
			`INSERT INTO leads (phone, business_name, description, website, google_maps_link)
             VALUES ($1, $2, $3, $4, $5)`,
			l.phone, l.name, l.description, l.website, l.mapsLink,
		)
		if err != nil {
			return fmt.Errorf("failed to insert %s: %w", l.name, err)
		}
		inserted++
	}
	fmt.Printf("Seeded: leads table (%d rows)\n", inserted)
	return nil
}

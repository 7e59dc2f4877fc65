// Generates a deliberately messy contact CSV for manual pipeline testing:
// mixed-case emails, formatted phones, abbreviated and misspelled states,
// all-caps names and a sprinkling of duplicates.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strings"

	"github.com/brianvoe/gofakeit/v6"
)

var dirtyStates = []string{"CA", "ca", "California", "Califronia", "TX", "tx", "New york", "OH", "Ohio", "FL"}

var dirtyRoles = []string{"Teacher", "teacher", "Principal", "IT Director", "Guidance Counselor", "Head of Stuff"}

func main() {
	var (
		count = flag.Int("count", 200, "number of rows to generate")
		seed  = flag.Int64("seed", 42, "random seed")
		out   = flag.String("out", "testdata_dirty.csv", "output CSV path")
	)
	flag.Parse()

	gofakeit.Seed(*seed)
	rng := rand.New(rand.NewSource(*seed))

	f, err := os.Create(*out)
	if err != nil {
		log.Fatalf("Failed to create %s: %v", *out, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"Full Name", "E-Mail", "Phone Number", "State", "Job Title", "Company", "Start Date", "Newsletter"}); err != nil {
		log.Fatalf("Failed to write header: %v", err)
	}

	var rows [][]string
	for i := 0; i < *count; i++ {
		first := gofakeit.FirstName()
		last := gofakeit.LastName()
		row := []string{
			messyName(rng, first, last),
			messyEmail(rng, first, last),
			messyPhone(rng),
			dirtyStates[rng.Intn(len(dirtyStates))],
			dirtyRoles[rng.Intn(len(dirtyRoles))],
			gofakeit.Company(),
			messyDate(rng),
			[]string{"Yes", "no", "TRUE", "y", "maybe"}[rng.Intn(5)],
		}
		rows = append(rows, row)
	}

	// Duplicate a handful of rows so duplicate detection has work to do.
	for i := 0; i < *count/20; i++ {
		dup := make([]string, len(rows[rng.Intn(len(rows))]))
		copy(dup, rows[rng.Intn(len(rows))])
		dup[1] = strings.ToUpper(dup[1][:1]) + dup[1][1:]
		rows = append(rows, dup)
	}

	for _, row := range rows {
		if err := w.Write(row); err != nil {
			log.Fatalf("Failed to write row: %v", err)
		}
	}

	fmt.Printf("Wrote %d rows to %s\n", len(rows), *out)
}

func messyName(rng *rand.Rand, first, last string) string {
	switch rng.Intn(4) {
	case 0:
		return strings.ToUpper(first + " " + last)
	case 1:
		return strings.ToLower(first) + " " + strings.ToLower(last)
	case 2:
		return " " + first + "  " + last + " "
	default:
		return first + " " + last
	}
}

func messyEmail(rng *rand.Rand, first, last string) string {
	domain := []string{"acme.com", "gmail.com", "gmial.com", "mailinator.com", "school.edu"}[rng.Intn(5)]
	email := fmt.Sprintf("%s.%s@%s", first, last, domain)
	if rng.Intn(3) == 0 {
		return email
	}
	return strings.ToLower(email)
}

func messyPhone(rng *rand.Rand) string {
	area := 200 + rng.Intn(700)
	mid := 100 + rng.Intn(900)
	tail := 1000 + rng.Intn(9000)
	switch rng.Intn(4) {
	case 0:
		return fmt.Sprintf("(%d) %d-%d", area, mid, tail)
	case 1:
		return fmt.Sprintf("%d.%d.%d", area, mid, tail)
	case 2:
		return fmt.Sprintf("1-%d-%d-%d", area, mid, tail)
	default:
		return fmt.Sprintf("%d-%d", mid, tail)
	}
}

func messyDate(rng *rand.Rand) string {
	year := 2020 + rng.Intn(5)
	month := 1 + rng.Intn(12)
	day := 1 + rng.Intn(28)
	switch rng.Intn(4) {
	case 0:
		return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
	case 1:
		return fmt.Sprintf("%d/%d/%d", month, day, year)
	case 2:
		return fmt.Sprintf("%02d.%02d.%04d", day, month, year)
	default:
		return fmt.Sprintf("%s %d, %d", []string{"January", "March", "June", "September"}[rng.Intn(4)], day, year)
	}
}

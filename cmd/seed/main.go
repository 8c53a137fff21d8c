// Package main provides a tool to seed the database with a demo congregation.
//
// This creates families, members, mokjang/chowon groups, roles, and filter
// taxonomies so the dashboard has realistic data to work with.
//
// Usage:
//
//	DATA_PATH=~/Mokjang/data go run ./cmd/seed
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/mokjangapp/mokjang-server/internal/domain"
	"github.com/mokjangapp/mokjang-server/internal/id"
	"github.com/mokjangapp/mokjang-server/internal/store/sqlite"
)

var memberCount = flag.Int("members", 60, "Number of members to create")

var surnames = []string{"김", "이", "박", "최", "정", "강", "조", "윤", "장", "임"}

var givenNames = []string{
	"철수", "영희", "준호", "수진", "민수", "지은", "성민", "은정", "동현", "미경",
	"태영", "현주", "상훈", "보람", "재원", "소연", "경민", "하늘", "진우", "아름",
}

var mokjangNames = []string{"1목장", "2목장", "3목장", "4목장", "5목장", "6목장"}

var chowonNames = []string{"1초원", "2초원", "3초원"}

var roleNames = []string{"장로", "권사", "안수집사", "집사", "성도"}

var tagPool = []string{"새가족", "찬양대", "주일학교 교사", "차량봉사", "식당봉사"}

func main() {
	flag.Parse()

	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		dataPath = os.ExpandEnv("$HOME/Mokjang/data")
	}

	dbPath := filepath.Join(dataPath, "mokjang.db")
	fmt.Printf("Opening database at: %s\n", dbPath)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	s, err := sqlite.Open(dbPath, logger)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	ctx := context.Background()
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	now := time.Now()

	// Chowon groups
	chowonIDs := make([]string, 0, len(chowonNames))
	for i, name := range chowonNames {
		c := &domain.Chowon{
			ID:        id.MustGenerate("cho"),
			Name:      name,
			Leader:    surnames[rng.Intn(len(surnames))] + givenNames[rng.Intn(len(givenNames))] + " 목사",
			SortOrder: i,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.CreateChowon(ctx, c); err != nil {
			log.Fatalf("Failed to create chowon %s: %v", name, err)
		}
		chowonIDs = append(chowonIDs, c.ID)
	}
	fmt.Printf("Created %d chowons\n", len(chowonIDs))

	// Mokjang taxonomy with each mokjang supervised by a chowon
	mokjangParent := &domain.ParentList{
		ID:        id.MustGenerate("par"),
		Type:      domain.TaxonomyMokjang,
		Name:      "목장",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.CreateParentList(ctx, mokjangParent); err != nil {
		log.Fatalf("Failed to create mokjang taxonomy: %v", err)
	}
	for i, name := range mokjangNames {
		child := &domain.ChildList{
			ID:        id.MustGenerate("cl"),
			ParentID:  mokjangParent.ID,
			Name:      name,
			SortOrder: i,
			ChowonID:  chowonIDs[i%len(chowonIDs)],
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.CreateChildList(ctx, child); err != nil {
			log.Fatalf("Failed to create mokjang entry %s: %v", name, err)
		}
	}
	fmt.Printf("Created mokjang taxonomy with %d entries\n", len(mokjangNames))

	// Role taxonomy mirrors the role table
	roleParent := &domain.ParentList{
		ID:        id.MustGenerate("par"),
		Type:      domain.TaxonomyRole,
		Name:      "직분",
		SortOrder: 1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.CreateParentList(ctx, roleParent); err != nil {
		log.Fatalf("Failed to create role taxonomy: %v", err)
	}
	for i, name := range roleNames {
		role := &domain.Role{
			ID:        id.MustGenerate("role"),
			Name:      name,
			SortOrder: i,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.CreateRole(ctx, role); err != nil {
			log.Fatalf("Failed to create role %s: %v", name, err)
		}
		child := &domain.ChildList{
			ID:        id.MustGenerate("cl"),
			ParentID:  roleParent.ID,
			Name:      name,
			SortOrder: i,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.CreateChildList(ctx, child); err != nil {
			log.Fatalf("Failed to create role entry %s: %v", name, err)
		}
	}
	fmt.Printf("Created %d roles\n", len(roleNames))

	// Families and members. Families get 1-4 members each: a head,
	// optionally a spouse and children.
	created := 0
	for created < *memberCount {
		surname := surnames[rng.Intn(len(surnames))]
		headName := surname + givenNames[rng.Intn(len(givenNames))]

		family := &domain.Family{
			ID:        id.MustGenerate("fam"),
			Name:      headName,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.CreateFamily(ctx, family); err != nil {
			log.Fatalf("Failed to create family: %v", err)
		}

		size := 1 + rng.Intn(4)
		for j := 0; j < size && created < *memberCount; j++ {
			name := headName
			relationship := "Head"
			gender := domain.GenderMale
			birthYear := 1955 + rng.Intn(35)
			switch j {
			case 1:
				name = surname + givenNames[rng.Intn(len(givenNames))]
				relationship = "Spouse"
				gender = domain.GenderFemale
			case 2, 3:
				name = surname + givenNames[rng.Intn(len(givenNames))]
				if rng.Intn(2) == 0 {
					relationship = "Son"
				} else {
					relationship = "Daughter"
					gender = domain.GenderFemale
				}
				birthYear = 1990 + rng.Intn(25)
			}

			birthday := time.Date(birthYear, time.Month(1+rng.Intn(12)), 1+rng.Intn(28), 0, 0, 0, 0, time.UTC)
			registered := now.AddDate(0, -rng.Intn(120), -rng.Intn(28))

			status := domain.StatusActive
			if rng.Float32() < 0.15 {
				status = domain.StatusInactive
			}

			tags := []string{}
			if rng.Float32() < 0.4 {
				tags = append(tags, tagPool[rng.Intn(len(tagPool))])
			}

			m := &domain.Member{
				ID:               id.MustGenerate("mem"),
				FamilyID:         family.ID,
				KoreanName:       name,
				Gender:           gender,
				Birthday:         &birthday,
				Phone:            fmt.Sprintf("010-%04d-%04d", rng.Intn(10000), rng.Intn(10000)),
				Relationship:     relationship,
				Role:             roleNames[rng.Intn(len(roleNames))],
				Mokjang:          mokjangNames[rng.Intn(len(mokjangNames))],
				RegistrationDate: &registered,
				Baptized:         rng.Float32() < 0.7,
				Status:           status,
				Tags:             tags,
				CreatedAt:        now,
				UpdatedAt:        now,
			}
			if err := s.CreateMember(ctx, m); err != nil {
				log.Fatalf("Failed to create member %s: %v", name, err)
			}
			created++
		}
	}

	fmt.Printf("Created %d members\n", created)
	fmt.Println("Done")
}

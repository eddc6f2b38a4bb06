// Seeds a local database with demo users, a client and an employee so the API
// can be exercised end to end. Idempotent; refuses to run unless
// SEED_DEMO_DATA=true.
package main

import (
	"context"
	"log"

	"eventbooking/pkg/config"
	"eventbooking/pkg/db"
)

const (
	demoAdminID    = "11111111-1111-1111-1111-111111111111"
	demoClientUser = "22222222-2222-2222-2222-222222222222"
	demoStaffUser  = "33333333-3333-3333-3333-333333333333"
	demoClientID   = "44444444-4444-4444-4444-444444444444"
	demoEmployeeID = "55555555-5555-5555-5555-555555555555"
)

func main() {
	cfg := config.Load()
	if !cfg.SeedDemoData {
		log.Fatal("refusing to seed: set SEED_DEMO_DATA=true")
	}

	ctx := context.Background()
	pool, err := db.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	defer pool.Close()

	stmts := []struct {
		desc string
		sql  string
		args []any
	}{
		{"admin user", `
INSERT INTO users (id, name, email, role) VALUES ($1, 'Admin Demo', 'admin@demo.local', 'admin')
ON CONFLICT (id) DO NOTHING`, []any{demoAdminID}},
		{"client user", `
INSERT INTO users (id, name, email, role) VALUES ($1, 'Carla Cliente', 'carla@demo.local', 'client')
ON CONFLICT (id) DO NOTHING`, []any{demoClientUser}},
		{"staff user", `
INSERT INTO users (id, name, email, role) VALUES ($1, 'Esteban Empleado', 'esteban@demo.local', 'staff')
ON CONFLICT (id) DO NOTHING`, []any{demoStaffUser}},
		{"client profile", `
INSERT INTO clients (id, user_id, name, document, person_type, phone, email, status, created_by)
VALUES ($1, $2, 'Carla Cliente', 'CC-900123456', 'Natural', '+506 8888 0001', 'carla@demo.local', 'Activo', $3)
ON CONFLICT (id) DO NOTHING`, []any{demoClientID, demoClientUser, demoAdminID}},
		{"employee profile", `
INSERT INTO employees (id, user_id, name, document, contract_type, phone, email, status, created_by)
VALUES ($1, $2, 'Esteban Empleado', 'CE-800654321', 'Permanente', '+506 8888 0002', 'esteban@demo.local', 'Activo', $3)
ON CONFLICT (id) DO NOTHING`, []any{demoEmployeeID, demoStaffUser, demoAdminID}},
	}

	for _, s := range stmts {
		if _, err := pool.Exec(ctx, s.sql, s.args...); err != nil {
			log.Fatalf("seed %s: %v", s.desc, err)
		}
		log.Printf("[seed] %s ok", s.desc)
	}
	log.Println("[seed] done")
}

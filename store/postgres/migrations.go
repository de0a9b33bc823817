package postgres

import (
	"context"

	"github.com/xraph/grove/migrate"
)

// Migrations is the grove migration group for the IronVault store.
var Migrations = migrate.NewGroup("ironvault")

func init() {
	Migrations.MustRegister(
		&migrate.Migration{
			Name:    "create_ironvault_plans",
			Version: "20260101000001",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS ironvault_plans (
    id                   TEXT PRIMARY KEY,
    name                 TEXT NOT NULL,
    price_amount         BIGINT NOT NULL CHECK (price_amount > 0),
    price_currency       TEXT NOT NULL DEFAULT 'usd',
    includes_trainer     BOOLEAN NOT NULL DEFAULT FALSE,
    includes_supplements BOOLEAN NOT NULL DEFAULT FALSE,
    created_at           TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at           TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS ironvault_plans`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_ironvault_members",
			Version: "20260101000002",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS ironvault_members (
    id            TEXT PRIMARY KEY,
    name          TEXT NOT NULL,
    email         TEXT NOT NULL,
    password_hash TEXT NOT NULL DEFAULT '',
    plan_id       TEXT NOT NULL DEFAULT '',
    expires_at    TIMESTAMPTZ NOT NULL,
    status        TEXT NOT NULL DEFAULT 'active',
    terminated_at TIMESTAMPTZ,
    created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_ironvault_members_email ON ironvault_members (LOWER(email));
CREATE INDEX IF NOT EXISTS idx_ironvault_members_expires ON ironvault_members (expires_at) WHERE terminated_at IS NULL;
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS ironvault_members`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_ironvault_payments",
			Version: "20260101000003",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS ironvault_payments (
    id              TEXT PRIMARY KEY,
    member_id       TEXT,
    amount_cents    BIGINT NOT NULL CHECK (amount_cents > 0),
    amount_currency TEXT NOT NULL DEFAULT 'usd',
    paid_at         TIMESTAMPTZ NOT NULL,
    note            TEXT NOT NULL DEFAULT '',
    created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_ironvault_payments_member ON ironvault_payments (member_id, paid_at);
CREATE INDEX IF NOT EXISTS idx_ironvault_payments_paid_at ON ironvault_payments (paid_at);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS ironvault_payments`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_ironvault_staff",
			Version: "20260101000004",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS ironvault_staff (
    id              TEXT PRIMARY KEY,
    name            TEXT NOT NULL,
    role            TEXT NOT NULL,
    salary_cents    BIGINT NOT NULL CHECK (salary_cents > 0),
    salary_currency TEXT NOT NULL DEFAULT 'usd',
    username        TEXT NOT NULL,
    password_hash   TEXT NOT NULL DEFAULT '',
    active          BOOLEAN NOT NULL DEFAULT TRUE,
    terminated_at   TIMESTAMPTZ,
    created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_ironvault_staff_username ON ironvault_staff (username);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS ironvault_staff`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_ironvault_salary_payments",
			Version: "20260101000005",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS ironvault_salary_payments (
    id              TEXT PRIMARY KEY,
    staff_id        TEXT NOT NULL REFERENCES ironvault_staff (id),
    amount_cents    BIGINT NOT NULL CHECK (amount_cents > 0),
    amount_currency TEXT NOT NULL DEFAULT 'usd',
    paid_at         TIMESTAMPTZ NOT NULL,
    period          TEXT NOT NULL,
    year            TEXT NOT NULL,
    created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_ironvault_salary_staff_period ON ironvault_salary_payments (staff_id, period);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS ironvault_salary_payments`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_ironvault_equipment",
			Version: "20260101000006",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS ironvault_machines (
    id             TEXT PRIMARY KEY,
    name           TEXT NOT NULL,
    status         TEXT NOT NULL DEFAULT 'Operational',
    price_cents    BIGINT,
    price_currency TEXT NOT NULL DEFAULT '',
    purchased_at   TIMESTAMPTZ,
    created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS ironvault_equipment_orders (
    id             TEXT PRIMARY KEY,
    equipment_name TEXT NOT NULL,
    quantity       INT NOT NULL CHECK (quantity > 0),
    total_cents    BIGINT NOT NULL CHECK (total_cents > 0),
    total_currency TEXT NOT NULL DEFAULT 'usd',
    ordered_at     TIMESTAMPTZ NOT NULL,
    paid           BOOLEAN NOT NULL DEFAULT FALSE,
    paid_at        TIMESTAMPTZ,
    created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_ironvault_orders_unpaid ON ironvault_equipment_orders (ordered_at) WHERE NOT paid;
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
DROP TABLE IF EXISTS ironvault_equipment_orders;
DROP TABLE IF EXISTS ironvault_machines;
`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_ironvault_expenses",
			Version: "20260101000007",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS ironvault_expenses (
    id              TEXT PRIMARY KEY,
    type            TEXT NOT NULL,
    description     TEXT NOT NULL DEFAULT '',
    amount_cents    BIGINT NOT NULL CHECK (amount_cents > 0),
    amount_currency TEXT NOT NULL DEFAULT 'usd',
    spent_at        TIMESTAMPTZ NOT NULL,
    order_id        TEXT,
    staff_id        TEXT,
    created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_ironvault_expenses_type ON ironvault_expenses (type, spent_at);
CREATE UNIQUE INDEX IF NOT EXISTS idx_ironvault_expenses_order ON ironvault_expenses (order_id) WHERE order_id IS NOT NULL;
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS ironvault_expenses`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_ironvault_owners",
			Version: "20260101000008",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS ironvault_owners (
    id            TEXT PRIMARY KEY,
    name          TEXT NOT NULL,
    username      TEXT NOT NULL,
    password_hash TEXT NOT NULL DEFAULT '',
    created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_ironvault_owners_username ON ironvault_owners (username);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS ironvault_owners`)
				return err
			},
		},
	)
}

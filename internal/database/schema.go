package database

import (
	"database/sql"
	"fmt"
	"strings"
)

// CreateSchema creates all tables needed by the application. Statements use
// IF NOT EXISTS so the function is safe to run on every startup.
func CreateSchema(db *sql.DB) error {
	for _, stmt := range strings.Split(schema, ";\n") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	return nil
}

const schema = `
CREATE TABLE IF NOT EXISTS artists (
    id              BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
    email           VARCHAR(255) NOT NULL,
    password_hash   VARCHAR(255) NOT NULL,
    name            VARCHAR(191) NOT NULL,
    stage_name      VARCHAR(191) NOT NULL,
    age             INT UNSIGNED NOT NULL,
    cell_number     VARCHAR(32) NOT NULL,
    whatsapp_number VARCHAR(32) NULL,
    bio             TEXT NOT NULL,
    image_public_id VARCHAR(191) NOT NULL,
    image_url       VARCHAR(512) NOT NULL,
    online_votes    BIGINT NOT NULL DEFAULT 0,
    financial_votes BIGINT NOT NULL DEFAULT 0,
    hand_votes      BIGINT NOT NULL DEFAULT 0,
    is_approved     TINYINT(1) NOT NULL DEFAULT 1,
    created_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
    PRIMARY KEY (id),
    UNIQUE KEY uq_artists_email (email),
    KEY idx_artists_approved (is_approved)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;

CREATE TABLE IF NOT EXISTS payments (
    id             BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
    trans_id       VARCHAR(64) NOT NULL,
    artist_id      BIGINT UNSIGNED NOT NULL,
    amount         BIGINT NOT NULL,
    currency       VARCHAR(8) NOT NULL DEFAULT 'XAF',
    status         ENUM('PENDING','SUCCESSFUL','FAILED') NOT NULL DEFAULT 'PENDING',
    payment_method VARCHAR(32) NOT NULL,
    votes_added    BIGINT NOT NULL DEFAULT 0,
    created_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
    PRIMARY KEY (id),
    UNIQUE KEY uq_payments_trans_id (trans_id),
    KEY idx_payments_artist (artist_id),
    KEY idx_payments_status_created (status, created_at)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;

CREATE TABLE IF NOT EXISTS manual_votes (
    id             BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
    artist_id      BIGINT UNSIGNED NOT NULL,
    admin_user_id  BIGINT UNSIGNED NOT NULL,
    amount         BIGINT NOT NULL,
    votes_added    BIGINT NOT NULL,
    payment_method ENUM('cash','bank_transfer','mobile_money') NOT NULL DEFAULT 'cash',
    notes          TEXT NULL,
    created_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (id),
    KEY idx_manual_votes_artist (artist_id),
    KEY idx_manual_votes_created (created_at)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;

CREATE TABLE IF NOT EXISTS users (
    id            BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
    name          VARCHAR(191) NOT NULL,
    email         VARCHAR(255) NOT NULL,
    password_hash VARCHAR(255) NOT NULL,
    is_admin      TINYINT(1) NOT NULL DEFAULT 0,
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
    PRIMARY KEY (id),
    UNIQUE KEY uq_users_email (email)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;

CREATE TABLE IF NOT EXISTS messages (
    id         BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
    name       VARCHAR(191) NOT NULL,
    email      VARCHAR(255) NOT NULL,
    subject    VARCHAR(255) NOT NULL,
    body       TEXT NOT NULL,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;
`

package database

import (
	"context"
	"database/sql"
	"fmt"
)

// EnsureSchema creates every table the application needs.  Each
// statement uses IF NOT EXISTS so the call is safe on every startup.
// Statements run one at a time because the driver connection is not
// opened with multiStatements.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
	    id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
	    email VARCHAR(255) NOT NULL,
	    password_hash VARCHAR(255) NOT NULL,
	    role ENUM('STUDENT','ADMIN') NOT NULL DEFAULT 'STUDENT',
	    is_active TINYINT(1) NOT NULL DEFAULT 1,
	    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	    updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
	    UNIQUE KEY uq_users_email (email)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS refresh_tokens (
	    id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
	    user_id BIGINT UNSIGNED NOT NULL,
	    token_hash CHAR(64) NOT NULL,
	    expires_at DATETIME NOT NULL,
	    revoked_at DATETIME NULL,
	    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	    UNIQUE KEY uq_refresh_tokens_hash (token_hash),
	    KEY idx_refresh_tokens_user (user_id),
	    CONSTRAINT fk_refresh_tokens_user FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS sponsors (
	    id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
	    first_name VARCHAR(100) NOT NULL,
	    last_name VARCHAR(100) NOT NULL,
	    user_id BIGINT UNSIGNED NULL,
	    online_attendance TINYINT(1) NOT NULL DEFAULT 1,
	    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	    updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
	    UNIQUE KEY uq_sponsors_name (first_name, last_name),
	    CONSTRAINT fk_sponsors_user FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE SET NULL
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS rooms (
	    id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
	    name VARCHAR(100) NOT NULL,
	    capacity INT NOT NULL DEFAULT 28,
	    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	    updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
	    UNIQUE KEY uq_rooms_name (name)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS activities (
	    id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
	    name VARCHAR(100) NOT NULL,
	    description TEXT NOT NULL,
	    restricted TINYINT(1) NOT NULL DEFAULT 0,
	    presign TINYINT(1) NOT NULL DEFAULT 0,
	    one_a_day TINYINT(1) NOT NULL DEFAULT 0,
	    both_blocks TINYINT(1) NOT NULL DEFAULT 0,
	    sticky TINYINT(1) NOT NULL DEFAULT 0,
	    special TINYINT(1) NOT NULL DEFAULT 0,
	    status ENUM('ACTIVE','DELETED') NOT NULL DEFAULT 'ACTIVE',
	    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	    updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
	    UNIQUE KEY uq_activities_name (name)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS activity_sponsors (
	    activity_id BIGINT UNSIGNED NOT NULL,
	    sponsor_id BIGINT UNSIGNED NOT NULL,
	    PRIMARY KEY (activity_id, sponsor_id),
	    CONSTRAINT fk_activity_sponsors_activity FOREIGN KEY (activity_id) REFERENCES activities(id) ON DELETE CASCADE,
	    CONSTRAINT fk_activity_sponsors_sponsor FOREIGN KEY (sponsor_id) REFERENCES sponsors(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS activity_rooms (
	    activity_id BIGINT UNSIGNED NOT NULL,
	    room_id BIGINT UNSIGNED NOT NULL,
	    PRIMARY KEY (activity_id, room_id),
	    CONSTRAINT fk_activity_rooms_activity FOREIGN KEY (activity_id) REFERENCES activities(id) ON DELETE CASCADE,
	    CONSTRAINT fk_activity_rooms_room FOREIGN KEY (room_id) REFERENCES rooms(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS blocks (
	    id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
	    date DATE NOT NULL,
	    block_letter VARCHAR(8) NOT NULL,
	    locked TINYINT(1) NOT NULL DEFAULT 0,
	    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	    updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
	    UNIQUE KEY uq_blocks_date_letter (date, block_letter)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS scheduled_activities (
	    id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
	    block_id BIGINT UNSIGNED NOT NULL,
	    activity_id BIGINT UNSIGNED NOT NULL,
	    comments TEXT NOT NULL,
	    sponsors_overridden TINYINT(1) NOT NULL DEFAULT 0,
	    rooms_overridden TINYINT(1) NOT NULL DEFAULT 0,
	    capacity INT NULL,
	    attendance_taken TINYINT(1) NOT NULL DEFAULT 0,
	    cancelled TINYINT(1) NOT NULL DEFAULT 0,
	    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	    updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
	    UNIQUE KEY uq_scheduled_block_activity (block_id, activity_id),
	    KEY idx_scheduled_block (block_id),
	    CONSTRAINT fk_scheduled_block FOREIGN KEY (block_id) REFERENCES blocks(id) ON DELETE CASCADE,
	    CONSTRAINT fk_scheduled_activity FOREIGN KEY (activity_id) REFERENCES activities(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS scheduled_sponsors (
	    scheduled_activity_id BIGINT UNSIGNED NOT NULL,
	    sponsor_id BIGINT UNSIGNED NOT NULL,
	    PRIMARY KEY (scheduled_activity_id, sponsor_id),
	    CONSTRAINT fk_scheduled_sponsors_scheduled FOREIGN KEY (scheduled_activity_id) REFERENCES scheduled_activities(id) ON DELETE CASCADE,
	    CONSTRAINT fk_scheduled_sponsors_sponsor FOREIGN KEY (sponsor_id) REFERENCES sponsors(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS scheduled_rooms (
	    scheduled_activity_id BIGINT UNSIGNED NOT NULL,
	    room_id BIGINT UNSIGNED NOT NULL,
	    PRIMARY KEY (scheduled_activity_id, room_id),
	    CONSTRAINT fk_scheduled_rooms_scheduled FOREIGN KEY (scheduled_activity_id) REFERENCES scheduled_activities(id) ON DELETE CASCADE,
	    CONSTRAINT fk_scheduled_rooms_room FOREIGN KEY (room_id) REFERENCES rooms(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS signups (
	    id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
	    user_id BIGINT UNSIGNED NOT NULL,
	    scheduled_activity_id BIGINT UNSIGNED NOT NULL,
	    block_id BIGINT UNSIGNED NOT NULL,
	    after_deadline TINYINT(1) NOT NULL DEFAULT 0,
	    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	    updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
	    UNIQUE KEY uq_signups_user_block (user_id, block_id),
	    KEY idx_signups_scheduled (scheduled_activity_id),
	    CONSTRAINT fk_signups_user FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE,
	    CONSTRAINT fk_signups_scheduled FOREIGN KEY (scheduled_activity_id) REFERENCES scheduled_activities(id),
	    CONSTRAINT fk_signups_block FOREIGN KEY (block_id) REFERENCES blocks(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS absences (
	    id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
	    block_id BIGINT UNSIGNED NOT NULL,
	    user_id BIGINT UNSIGNED NOT NULL,
	    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	    UNIQUE KEY uq_absences_block_user (block_id, user_id),
	    CONSTRAINT fk_absences_block FOREIGN KEY (block_id) REFERENCES blocks(id) ON DELETE CASCADE,
	    CONSTRAINT fk_absences_user FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

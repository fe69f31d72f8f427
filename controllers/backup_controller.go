package controllers

import (
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"laptoppos/database"
)

// BackupController serves snapshot downloads and applies uploaded backups
// to the local store and the relational mirror as one operation.
type BackupController struct {
	Store  *database.Store
	Syncer *database.RelationalSyncer
	Bulk   *database.BulkRestorer
}

// Download streams the current snapshot document
func (bc *BackupController) Download(c *gin.Context) {
	c.Header("Content-Disposition", "attachment; filename=laptoppos-backup.json")
	c.JSON(http.StatusOK, bc.Store.Snapshot())
}

// Restore replaces the whole dataset from an uploaded snapshot file.
// The local apply is all-or-nothing; the relational apply may still fail
// independently and is reported through the database_synced flag.
func (bc *BackupController) Restore(c *gin.Context) {
	file, _, err := c.Request.FormFile("backup")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A backup file upload is required"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not read backup file"})
		return
	}
	var snap database.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Backup file is not a valid snapshot"})
		return
	}

	if err := bc.Store.Restore(actorFrom(c), &snap); err != nil {
		handleStoreError(c, err)
		return
	}

	// Apply to the relational mirror synchronously so the response can
	// report whether it took. COPY fast path on postgres.
	synced := false
	switch {
	case bc.Bulk != nil:
		if err := bc.Bulk.Restore(&snap); err != nil {
			log.Printf("Bulk restore to relational mirror failed: %v", err)
		} else {
			synced = true
		}
	case bc.Syncer != nil:
		if err := bc.Syncer.Sync(&snap); err != nil {
			log.Printf("Relational restore failed: %v", err)
		} else {
			synced = true
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"message":         "Backup restored",
		"database_synced": synced,
	})
}

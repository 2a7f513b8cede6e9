package database

import (
	"context"
	"log"
	"testing"
	"time"

	"TalentForm-backend/internal/model"

	"github.com/stretchr/testify/assert"

	// Load env
	_ "github.com/joho/godotenv/autoload"
)

var testDB *DBinstanceStruct

func TestMain(m *testing.M) {
	var err error
	teardownFn, db, err := GetTestDB()
	if err != nil {
		log.Fatalf("could not start postgres container: %v", err)
	}
	testDB = db

	m.Run()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if teardownFn != nil {
		_ = teardownFn(ctx)
	}
}

func TestHealth(t *testing.T) {
	stats := testDB.Health()
	assert.Equal(t, "up", stats["status"])
}

func TestFieldCatalogSeeded(t *testing.T) {
	var count int64
	err := testDB.Model(&model.FieldDescriptor{}).Count(&count).Error
	assert.NoError(t, err)
	assert.GreaterOrEqual(t, count, int64(8))

	var phone model.FieldDescriptor
	err = testDB.Where("key = ?", model.FieldKeyPhoneNumber).First(&phone).Error
	assert.NoError(t, err)
	assert.Equal(t, model.FieldTypePhone, phone.Type)
}

func TestSeededJobPostConfiguration(t *testing.T) {
	var configs []model.FieldConfiguration
	err := testDB.Preload("Field").
		Where("job_post_id = ?", TestJobPost1.ID).
		Order("sort_order ASC").
		Find(&configs).Error
	assert.NoError(t, err)
	assert.Len(t, configs, 4)
	assert.Equal(t, model.FieldKeyFullName, configs[0].Field.Key)
	assert.Equal(t, model.FieldStateMandatory, configs[0].State)
	assert.Equal(t, model.FieldStateOff, configs[3].State)
}

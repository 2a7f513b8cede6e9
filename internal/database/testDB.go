package database

import (
	"context"
	"fmt"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/google/uuid"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	// Load env
	_ "github.com/joho/godotenv/autoload"

	m "TalentForm-backend/internal/model"
	"TalentForm-backend/internal/utilities"
)

var testDBInstance *DBinstanceStruct
var teardown func(context.Context, ...testcontainers.TerminateOption) error

// Exported seeded users, profiles, and form fixtures for handler tests
var (
	TestAdminUser      m.User
	TestUserApplicant1 m.User
	TestUserApplicant2 m.User
	TestUserRecruiter1 m.User

	TestProfile1 m.Profile
	TestProfile2 m.Profile

	// Shared plain password of every seeded user
	TestSeedPassword = "SeedPass123!"

	// TestJobPost1 carries the standard form: full_name mandatory,
	// linkedin_url + domicile optional, expected_salary off.
	TestJobPost1 m.JobPost
	// TestJobPost2 has no field configuration at all (empty-form case).
	TestJobPost2 m.JobPost

	// TestAnswerDomicile is applicant 1's prior answer for the domicile
	// field; it conflicts with the profile's location on purpose.
	TestAnswerDomicile m.OtherInfoAnswer
)

// GetTestDB starts a PostgreSQL test container and returns a teardown function,
// the DB instance, and any error encountered during setup.
func GetTestDB() (func(context.Context, ...testcontainers.TerminateOption) error, *DBinstanceStruct, error) {

	if testDBInstance != nil && teardown != nil {
		return teardown, testDBInstance, nil
	}

	// Database configuration
	var (
		dbName = "database"
		dbPwd  = "password"
		dbUser = "user"
	)

	dbContainer, err := postgres.Run(
		context.Background(),
		"postgres:latest",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPwd),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second)),
	)
	if err != nil {
		return nil, nil, err
	}

	dbHost, err := dbContainer.Host(context.Background())
	if err != nil {
		return dbContainer.Terminate, nil, err
	}

	dbPort, err := dbContainer.MappedPort(context.Background(), nat.Port("5432/tcp"))
	if err != nil {
		return dbContainer.Terminate, nil, err
	}

	config := &DBConfig{
		useConstr: true,
		Constr:    fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable", dbHost, dbPort.Port(), dbUser, dbPwd, dbName),
	}

	db, err := NewDBInstance(config)
	if err != nil {
		return dbContainer.Terminate, nil, err
	}

	if err := seedTestData(db); err != nil {
		_ = dbContainer.Terminate(context.Background())
		return nil, nil, err
	}

	testDBInstance = db
	teardown = dbContainer.Terminate

	return dbContainer.Terminate, db, nil
}

// seedTestData inserts sample applicants, a recruiter, profiles, job posts,
// field configurations, and one prior other-info answer if the DB is empty.
func seedTestData(db *DBinstanceStruct) error {
	var userCount int64
	if err := db.Model(&m.User{}).Count(&userCount).Error; err != nil {
		return err
	}
	if userCount > 0 {
		return nil
	}

	hashedPwd, err := utilities.HashPassword(TestSeedPassword)
	if err != nil {
		return err
	}

	userSpecs := []struct {
		username string
		email    string
		role     string
	}{
		{"applicant_1", "applicant1@example.com", m.RoleApplicant},
		{"applicant_2", "applicant2@example.com", m.RoleApplicant},
		{"recruiter_1", "recruiter1@example.com", m.RoleRecruiter},
		{"admin_user", "admin@example.com", m.RoleAdmin},
	}

	users := make([]m.User, 0, len(userSpecs))
	for _, s := range userSpecs {
		email := s.email
		users = append(users, m.User{
			ID:       uuid.New(),
			Username: s.username,
			Email:    &email,
			Role:     s.role,
			Password: hashedPwd,
		})
	}

	if err := db.Create(&users).Error; err != nil {
		return err
	}

	for _, u := range users {
		switch u.Username {
		case "applicant_1":
			TestUserApplicant1 = u
		case "applicant_2":
			TestUserApplicant2 = u
		case "recruiter_1":
			TestUserRecruiter1 = u
		case "admin_user":
			TestAdminUser = u
		}
	}

	TestProfile1 = m.Profile{
		UserID: TestUserApplicant1.ID,
		EditableProfileInfo: m.EditableProfileInfo{
			Fullname: "John Doe",
			Phone:    "+62 811-0001",
			Location: "Bandung",
		},
	}
	TestProfile2 = m.Profile{
		UserID: TestUserApplicant2.ID,
	}
	if err := db.Create(&TestProfile1).Error; err != nil {
		return err
	}
	if err := db.Create(&TestProfile2).Error; err != nil {
		return err
	}

	// The catalog was seeded during NewDBInstance; look fields up by key.
	fieldByKey := func(key string) (m.FieldDescriptor, error) {
		var f m.FieldDescriptor
		err := db.Where("key = ?", key).First(&f).Error
		return f, err
	}

	fullName, err := fieldByKey(m.FieldKeyFullName)
	if err != nil {
		return err
	}
	linkedin, err := fieldByKey(m.FieldKeyLinkedinURL)
	if err != nil {
		return err
	}
	domicile, err := fieldByKey(m.FieldKeyDomicile)
	if err != nil {
		return err
	}

	salary := m.FieldDescriptor{Key: "expected_salary", Label: "Expected Salary", Type: m.FieldTypeNumber}
	if err := db.Create(&salary).Error; err != nil {
		return err
	}

	TestJobPost1 = m.JobPost{
		RecruiterID: TestUserRecruiter1.ID,
		EditableJobPostInfo: m.EditableJobPostInfo{
			Title:    "Backend Engineer",
			Desc:     "Build and run Go services",
			Location: "Jakarta",
			Type:     "full-time",
			Tags:     []string{"go", "postgres"},
		},
		FieldConfigurations: []m.FieldConfiguration{
			{FieldID: fullName.ID, State: m.FieldStateMandatory, SortOrder: 0},
			{FieldID: linkedin.ID, State: m.FieldStateOptional, SortOrder: 1},
			{FieldID: domicile.ID, State: m.FieldStateOptional, SortOrder: 2},
			{FieldID: salary.ID, State: m.FieldStateOff, SortOrder: 3},
		},
	}
	if err := db.Create(&TestJobPost1).Error; err != nil {
		return err
	}

	TestJobPost2 = m.JobPost{
		RecruiterID: TestUserRecruiter1.ID,
		EditableJobPostInfo: m.EditableJobPostInfo{
			Title: "Unconfigured Post",
			Type:  "internship",
		},
	}
	if err := db.Create(&TestJobPost2).Error; err != nil {
		return err
	}

	TestAnswerDomicile = m.OtherInfoAnswer{
		ProfileID: TestProfile1.ID,
		FieldID:   domicile.ID,
		Answer:    "Jakarta",
	}
	return db.Create(&TestAnswerDomicile).Error
}

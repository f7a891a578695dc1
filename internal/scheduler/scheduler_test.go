package scheduler

import (
	"testing"
	"time"

	"github.com/donorhub/dhs/internal/config"
	"github.com/donorhub/dhs/internal/database/databasetest"
	"github.com/donorhub/dhs/internal/export"
	"github.com/donorhub/dhs/internal/logger"
	"github.com/donorhub/dhs/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
)

func testConfig() *config.Config {
	return &config.Config{
		Scheduler: config.SchedulerConfig{Interval: 300},
		Export:    config.ExportConfig{Interval: 3600, Prefix: "exports"},
	}
}

func observeLogs(t *testing.T) *observer.ObservedLogs {
	core, logs := observer.New(zapcore.DebugLevel)
	prev := logger.Default()
	logger.SetDefaultLogger(logger.NewWithCore(core))
	t.Cleanup(func() { logger.SetDefaultLogger(prev) })
	return logs
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func createCampaign(t *testing.T, db *gorm.DB, c model.Campaign) *model.Campaign {
	t.Helper()
	require.NoError(t, db.Create(&c).Error)
	return &c
}

func TestManagerJobs(t *testing.T) {
	db := databasetest.New(t)

	m, err := NewManager(db, testConfig(), nil)
	require.NoError(t, err)
	var names []string
	for _, job := range m.Jobs() {
		names = append(names, job.GetName())
	}
	assert.Equal(t, []string{"campaign_status_updater", "campaign_raised_reconciler"}, names)

	exporter := export.NewExporter(db, export.NewMemoryUploader(), "exports")
	m, err = NewManager(db, testConfig(), exporter)
	require.NoError(t, err)
	assert.Len(t, m.Jobs(), 3)

	require.NoError(t, m.Start())
	m.Stop()
}

func TestCampaignStatusJob(t *testing.T) {
	db := databasetest.New(t)
	logs := observeLogs(t)

	end := day(2024, 5, 31)
	ended := createCampaign(t, db, model.Campaign{Name: "Ended", Goal: 10, StartDate: day(2024, 5, 1), EndDate: &end, Status: model.CampaignStatusActive})
	upcoming := createCampaign(t, db, model.Campaign{Name: "Upcoming", Goal: 10, StartDate: day(2024, 6, 1), Status: model.CampaignStatusUpcoming})
	paused := createCampaign(t, db, model.Campaign{Name: "Paused", Goal: 10, StartDate: day(2024, 1, 1), EndDate: &end, Status: model.CampaignStatusPaused})

	job := NewCampaignStatusJob(db, testConfig())
	job.now = func() time.Time { return time.Date(2024, 6, 2, 3, 0, 0, 0, time.UTC) }
	job.Execute()

	status := func(id int64) model.CampaignStatus {
		var c model.Campaign
		require.NoError(t, db.First(&c, id).Error)
		return c.Status
	}
	assert.Equal(t, model.CampaignStatusCompleted, status(ended.Id))
	assert.Equal(t, model.CampaignStatusActive, status(upcoming.Id))
	assert.Equal(t, model.CampaignStatusPaused, status(paused.Id))

	assert.Equal(t, 1, logs.FilterMessage("Campaign status update completed. Activated 1, completed 1").Len())
}

func TestRaisedReconcileJob(t *testing.T) {
	db := databasetest.New(t)
	logs := observeLogs(t)

	donor := &model.Donor{Name: "Jane", Email: "jane@example.com", Status: model.DonorStatusNew}
	require.NoError(t, db.Create(donor).Error)
	campaign := createCampaign(t, db, model.Campaign{Name: "Spring", Goal: 1000, Raised: 10, StartDate: day(2024, 1, 1), Status: model.CampaignStatusActive})
	require.NoError(t, db.Create(&model.Donation{Amount: 120, Date: day(2024, 2, 1), Method: "cash", DonorId: donor.Id, CampaignId: &campaign.Id}).Error)

	NewRaisedReconcileJob(db, testConfig()).Execute()

	var got model.Campaign
	require.NoError(t, db.First(&got, campaign.Id).Error)
	assert.Equal(t, 120.0, got.Raised)
	assert.Equal(t, 1, logs.FilterMessage("Campaign reconcile completed. Corrected 1 campaigns").Len())
	assert.Equal(t, 1, logs.FilterLevelExact(zapcore.WarnLevel).Len())
}

func TestDonationExportJob(t *testing.T) {
	db := databasetest.New(t)
	uploader := export.NewMemoryUploader()

	NewDonationExportJob(export.NewExporter(db, uploader, "exports"), testConfig()).Execute()

	keys := uploader.Keys()
	require.Len(t, keys, 1)
	assert.Contains(t, keys[0], "exports/donations-")
	assert.Equal(t, "id,date,amount,method,recurring,thanked,donor_id,donor_name,donor_email,campaign_id,campaign_name\n", string(uploader.Objects[keys[0]]))
}

package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type ReportArchiverTestSuite struct {
	suite.Suite
	mockMinio *MockMinioService
	archiver  ReportArchiver
	report    *Report
}

func (suite *ReportArchiverTestSuite) SetupTest() {
	suite.mockMinio = &MockMinioService{}
	suite.mockMinio.Test(suite.T())
	suite.archiver = NewReportArchiver(suite.mockMinio, "reports", 0)
	suite.report = &Report{Filename: "all_companies_report.pdf", Content: []byte("%PDF-1.3 test")}
}

func (suite *ReportArchiverTestSuite) TearDownTest() {
	suite.mockMinio.AssertExpectations(suite.T())
}

func TestReportArchiverTestSuite(t *testing.T) {
	suite.Run(t, new(ReportArchiverTestSuite))
}

func (suite *ReportArchiverTestSuite) TestArchive_Success() {
	ctx := context.Background()
	object := "2024-04-01/all_companies_report.pdf"
	size := int64(len(suite.report.Content))

	suite.mockMinio.On("EnsureBucketExists", ctx, "reports").Return(nil).Once()
	suite.mockMinio.On("UploadObject", ctx, "reports", object, mock.Anything, size, "application/pdf").Return(nil).Once()
	suite.mockMinio.On("GetPresignedURL", ctx, "reports", object, DefaultArchiveExpiry).Return("https://minio.local/reports/x", nil).Once()

	archived, err := suite.archiver.Archive(ctx, suite.report, "2024-04-01")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), object, archived.ObjectName)
	assert.Equal(suite.T(), "https://minio.local/reports/x", archived.URL)
	assert.Equal(suite.T(), DefaultArchiveExpiry, archived.ExpiresIn)
}

func (suite *ReportArchiverTestSuite) TestArchive_NoPrefix() {
	ctx := context.Background()
	suite.mockMinio.On("EnsureBucketExists", ctx, "reports").Return(nil).Once()
	suite.mockMinio.On("UploadObject", ctx, "reports", "all_companies_report.pdf", mock.Anything, mock.Anything, "application/pdf").Return(nil).Once()
	suite.mockMinio.On("GetPresignedURL", ctx, "reports", "all_companies_report.pdf", DefaultArchiveExpiry).Return("u", nil).Once()

	archived, err := suite.archiver.Archive(ctx, suite.report, "")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "all_companies_report.pdf", archived.ObjectName)
}

func (suite *ReportArchiverTestSuite) TestArchive_BucketFailure() {
	ctx := context.Background()
	suite.mockMinio.On("EnsureBucketExists", ctx, "reports").Return(errors.New("access denied")).Once()

	archived, err := suite.archiver.Archive(ctx, suite.report, "")
	assert.Error(suite.T(), err)
	assert.Nil(suite.T(), archived)
	suite.mockMinio.AssertNotCalled(suite.T(), "UploadObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReportArchiverTestSuite) TestArchive_UploadFailure() {
	ctx := context.Background()
	suite.mockMinio.On("EnsureBucketExists", ctx, "reports").Return(nil).Once()
	suite.mockMinio.On("UploadObject", ctx, "reports", "all_companies_report.pdf", mock.Anything, mock.Anything, "application/pdf").Return(errors.New("network")).Once()

	_, err := suite.archiver.Archive(ctx, suite.report, "")
	assert.ErrorContains(suite.T(), err, "upload all_companies_report.pdf")
}

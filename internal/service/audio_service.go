package service

import (
	"context"
	"fmt"
	"io"
	"lingo_backend/internal/model"
	"lingo_backend/internal/repository"
	"lingo_backend/internal/util"
	"lingo_backend/pkg/logger"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AudioService 听力题音频资源：上传、探测、转码、关联题目
type AudioService struct {
	AudioRepo    *repository.AudioRepository
	QuestionRepo *repository.QuestionRepository
	Storage      *StorageService
}

func NewAudioService(
	audioRepo *repository.AudioRepository,
	questionRepo *repository.QuestionRepository,
	storage *StorageService,
) *AudioService {
	return &AudioService{
		AudioRepo:    audioRepo,
		QuestionRepo: questionRepo,
		Storage:      storage,
	}
}

// Upload 为听力题上传音频，非mp3先转码
func (s *AudioService) Upload(ctx context.Context, questionID string, file *multipart.FileHeader, uploadedBy uint) (*model.AudioAsset, error) {
	question, err := s.QuestionRepo.FindByQuestionID(questionID)
	if err == gorm.ErrRecordNotFound {
		return nil, util.ErrQuestionNotFound
	}
	if err != nil {
		return nil, err
	}
	if question.Mode != model.ModeListening {
		return nil, util.ErrUnsupportedMode
	}

	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	tmpDir, err := os.MkdirTemp("", "lingo-audio-*")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(tmpDir)

	tmpPath := filepath.Join(tmpDir, filepath.Base(file.Filename))
	tmpFile, err := os.Create(tmpPath)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(tmpFile, src); err != nil {
		tmpFile.Close()
		return nil, err
	}
	tmpFile.Close()

	info, err := util.GetAudioInfo(tmpPath)
	if err != nil {
		return nil, err
	}

	uploadPath := tmpPath
	if info.Format != "mp3" {
		mp3Path := strings.TrimSuffix(tmpPath, filepath.Ext(tmpPath)) + ".mp3"
		if err := util.TranscodeToMP3(tmpPath, mp3Path); err != nil {
			logger.Log.Warn("Audio transcode failed, storing original",
				zap.String("questionId", questionID), zap.Error(err))
		} else {
			uploadPath = mp3Path
			if converted, err := util.GetAudioInfo(mp3Path); err == nil {
				info = converted
			}
		}
	}

	objectName := fmt.Sprintf("audio/%s%s", questionID, filepath.Ext(uploadPath))
	url, err := s.Storage.UploadFile(ctx, objectName, uploadPath, "audio/mpeg")
	if err != nil {
		return nil, err
	}

	asset := &model.AudioAsset{
		QuestionID: questionID,
		URL:        url,
		Format:     info.Format,
		Duration:   info.Duration,
		Size:       info.Size,
		UploadedBy: uploadedBy,
	}
	if err := s.AudioRepo.Upsert(asset); err != nil {
		return nil, err
	}
	return asset, nil
}

func (s *AudioService) Get(questionID string) (*model.AudioAsset, error) {
	asset, err := s.AudioRepo.FindByQuestionID(questionID)
	if err == gorm.ErrRecordNotFound {
		return nil, util.ErrAudioNotFound
	}
	return asset, err
}

func (s *AudioService) Delete(ctx context.Context, questionID string) error {
	asset, err := s.Get(questionID)
	if err != nil {
		return err
	}
	objectName := strings.TrimPrefix(asset.URL, "/uploads/")
	if err := s.Storage.Delete(ctx, objectName); err != nil {
		logger.Log.Warn("Failed to delete audio object",
			zap.String("questionId", questionID), zap.Error(err))
	}
	return s.AudioRepo.Delete(questionID)
}

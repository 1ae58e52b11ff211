package catalog

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/wearevirtua/catalog/internal/domain"
	"github.com/wearevirtua/catalog/internal/imagestore"
)

// ImageService handles explicit image removal: the owning workflow detaches
// the image from its slot, deletes the stored file and the row.
type ImageService struct {
	images ImageRepository
	store  *imagestore.Store
	signer *TokenSigner
}

func NewImageService(images ImageRepository, store *imagestore.Store, signer *TokenSigner) *ImageService {
	return &ImageService{images: images, store: store, signer: signer}
}

func (s *ImageService) Signer() *TokenSigner { return s.signer }

func (s *ImageService) Delete(ctx context.Context, id int64, token string) error {
	img, err := s.images.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &domain.NotFoundError{Entity: "image", ID: id}
		}
		return err
	}
	if err := s.signer.Verify(KindImage, id, token); err != nil {
		return err
	}
	if err := s.images.Detach(ctx, id); err != nil {
		return err
	}
	if err := s.store.Remove(img.Path); err != nil {
		return err
	}
	if err := s.images.Delete(ctx, id); err != nil {
		return err
	}
	zap.L().Info("image deleted", zap.Int64("id", id), zap.String("path", img.Path))
	return nil
}

package usecase

import "context"

// TxManager runs fn as one unit of work: everything fn does through
// repositories commits together or not at all.
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

type PaymentGateway interface {
	CreatePaymentIntent(ctx context.Context, req *CreatePaymentIntentReq) (*PaymentIntent, error)
}

type ImagesInfra interface {
	UploadProductImage(ctx context.Context, productID int64, image ProductImage) (string, error)
	CleanupImages(keys []string)
}

type MessageProducer interface {
	WriteRawMessage(ctx context.Context, req *WriteRawMessageReq) error
}

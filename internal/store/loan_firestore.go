package store

import (
	"context"
	"fmt"
	"strconv"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/GregMSThompson/energyhub-backend/internal/errs"
	"github.com/GregMSThompson/energyhub-backend/internal/models"
)

type fieldCipher interface {
	KmsEncrypt(ctx context.Context, plaintext string) (string, error)
	KmsDecrypt(ctx context.Context, ciphertext string) (string, error)
}

type loanFirestoreStore struct {
	Client     *firestore.Client
	Collection *firestore.CollectionRef
	cipher     fieldCipher
}

// NewLoanFirestoreStore stores loans in the loan_applications collection.
// When cipher is non-nil the applicant email is encrypted at rest.
func NewLoanFirestoreStore(client *firestore.Client, cipher fieldCipher) *loanFirestoreStore {
	return &loanFirestoreStore{
		Client:     client,
		Collection: client.Collection("loan_applications"),
		cipher:     cipher,
	}
}

func docID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func (s *loanFirestoreStore) Create(ctx context.Context, loan *models.LoanApplication) error {
	doc := *loan
	if s.cipher != nil {
		enc, err := s.cipher.KmsEncrypt(ctx, loan.Email)
		if err != nil {
			return errs.NewEncryptionError("failed to encrypt applicant email", err)
		}
		doc.Email = enc
	}

	_, err := s.Collection.Doc(docID(loan.ID)).Create(ctx, doc)
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return errs.NewAlreadyExistsError(fmt.Sprintf("loan %d already exists", loan.ID))
		}
		return errs.NewDatabaseError("create", "failed to create loan", err)
	}
	return nil
}

func (s *loanFirestoreStore) List(ctx context.Context) ([]*models.LoanApplication, error) {
	iter := s.Collection.
		OrderBy("createdAt", firestore.Asc).
		OrderBy("id", firestore.Asc).
		Documents(ctx)
	defer iter.Stop()

	loans := make([]*models.LoanApplication, 0)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errs.NewDatabaseError("read", "failed to list loans", err)
		}
		l, err := s.decode(ctx, doc)
		if err != nil {
			return nil, err
		}
		loans = append(loans, l)
	}
	return loans, nil
}

func (s *loanFirestoreStore) Get(ctx context.Context, id int64) (*models.LoanApplication, error) {
	doc, err := s.Collection.Doc(docID(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errs.NewNotFoundError("Loan not found")
		}
		return nil, errs.NewDatabaseError("read", "failed to get loan", err)
	}
	return s.decode(ctx, doc)
}

func (s *loanFirestoreStore) decode(ctx context.Context, doc *firestore.DocumentSnapshot) (*models.LoanApplication, error) {
	var l models.LoanApplication
	if err := doc.DataTo(&l); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse loan data", err)
	}
	if s.cipher != nil {
		email, err := s.cipher.KmsDecrypt(ctx, l.Email)
		if err != nil {
			return nil, errs.NewEncryptionError("failed to decrypt applicant email", err)
		}
		l.Email = email
	}
	return &l, nil
}

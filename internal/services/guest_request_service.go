package services

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/hyvacanteen/canteen-coupon-backend/internal/database"
	"github.com/hyvacanteen/canteen-coupon-backend/internal/models"
	"github.com/sirupsen/logrus"
)

// GuestRequestService runs the guest coupon request workflow:
// pending -> approved | rejected, decided exactly once. Approval mints the
// guest coupon through the ledger.
type GuestRequestService struct {
	requestRepo      *database.GuestRequestRepository
	couponService    *CouponService
	employeeRepo     *database.EmployeeRepository
	notificationRepo *database.NotificationRepository
	logger           *logrus.Logger
}

// NewGuestRequestService creates a new GuestRequestService
func NewGuestRequestService(
	requestRepo *database.GuestRequestRepository,
	couponService *CouponService,
	employeeRepo *database.EmployeeRepository,
	notificationRepo *database.NotificationRepository,
	logger *logrus.Logger,
) *GuestRequestService {
	return &GuestRequestService{
		requestRepo:      requestRepo,
		couponService:    couponService,
		employeeRepo:     employeeRepo,
		notificationRepo: notificationRepo,
		logger:           logger,
	}
}

// Create submits a new pending guest coupon request
func (s *GuestRequestService) Create(employeeID int64, guestName, guestCompany string, couponType models.CouponType) (*models.GuestCouponRequest, error) {
	if guestName == "" {
		return nil, ValidationError("Guest name is required.")
	}
	if !models.ValidCouponType(couponType) {
		return nil, ValidationError(fmt.Sprintf("Unknown coupon type %q.", couponType))
	}

	employee, err := s.employeeRepo.GetByID(employeeID)
	if err == database.ErrEmployeeNotFound {
		return nil, NotFoundError("Employee not found.")
	}
	if err != nil {
		return nil, TransientError("Failed to look up employee.", err)
	}

	request := &models.GuestCouponRequest{
		RequestingEmployeeID:   employeeID,
		RequestingEmployeeName: employee.Name,
		GuestName:              guestName,
		GuestCompany:           guestCompany,
		CouponType:             couponType,
	}

	if err := s.requestRepo.Create(request); err != nil {
		return nil, TransientError("Failed to submit guest coupon request.", err)
	}

	return request, nil
}

// List returns all guest coupon requests, newest first
func (s *GuestRequestService) List() ([]models.GuestCouponRequest, error) {
	requests, err := s.requestRepo.ListAll()
	if err != nil {
		return nil, TransientError("Failed to list guest requests.", err)
	}
	return requests, nil
}

// Approve decides a pending request and mints its guest coupon. The request
// flip and the mint commit together; a request that already left pending
// fails with an invalid-state error and mints nothing.
func (s *GuestRequestService) Approve(requestID uuid.UUID) (*models.GuestCouponRequest, error) {
	request, err := s.requestRepo.GetByID(requestID)
	if err == database.ErrRequestNotFound {
		return nil, NotFoundError("Guest coupon request not found.")
	}
	if err != nil {
		return nil, TransientError("Failed to look up guest request.", err)
	}
	if request.Status != models.GuestRequestPending {
		return nil, InvalidStateError("This request has already been decided.")
	}

	coupon := &models.Coupon{
		CouponID:      uuid.New(),
		CouponType:    request.CouponType,
		IsGuestCoupon: true,
		BatchID:       uuid.New(),
	}
	coupon.GuestName.Valid = true
	coupon.GuestName.String = request.GuestName
	coupon.SharedByEmployeeID.Valid = true
	coupon.SharedByEmployeeID.Int64 = request.RequestingEmployeeID

	// Retry on code collision like any other issuance; the status CAS inside
	// Approve keeps the retries one-shot with respect to the request itself
	var approveErr error
	for attempt := 0; attempt < 5; attempt++ {
		code, err := s.couponService.NewCode()
		if err != nil {
			return nil, err
		}
		coupon.RedemptionCode = code

		approveErr = s.requestRepo.Approve(requestID, coupon)
		if approveErr != database.ErrDuplicateCode {
			break
		}
	}

	switch approveErr {
	case nil:
	case database.ErrRequestNotFound:
		return nil, NotFoundError("Guest coupon request not found.")
	case database.ErrRequestAlreadyDecided:
		return nil, InvalidStateError("This request has already been decided.")
	default:
		return nil, TransientError("Failed to approve guest request.", approveErr)
	}

	s.notify(request.RequestingEmployeeID, fmt.Sprintf(
		"Your guest coupon request for %s has been approved. Code: %s", request.GuestName, coupon.RedemptionCode))

	return s.reload(requestID)
}

// Reject decides a pending request without minting a coupon
func (s *GuestRequestService) Reject(requestID uuid.UUID) (*models.GuestCouponRequest, error) {
	request, err := s.requestRepo.GetByID(requestID)
	if err == database.ErrRequestNotFound {
		return nil, NotFoundError("Guest coupon request not found.")
	}
	if err != nil {
		return nil, TransientError("Failed to look up guest request.", err)
	}

	err = s.requestRepo.Reject(requestID)
	switch err {
	case nil:
	case database.ErrRequestNotFound:
		return nil, NotFoundError("Guest coupon request not found.")
	case database.ErrRequestAlreadyDecided:
		return nil, InvalidStateError("This request has already been decided.")
	default:
		return nil, TransientError("Failed to reject guest request.", err)
	}

	s.notify(request.RequestingEmployeeID, fmt.Sprintf(
		"Your guest coupon request for %s has been rejected.", request.GuestName))

	return s.reload(requestID)
}

func (s *GuestRequestService) reload(requestID uuid.UUID) (*models.GuestCouponRequest, error) {
	request, err := s.requestRepo.GetByID(requestID)
	if err != nil {
		return nil, TransientError("Failed to reload guest request.", err)
	}
	return request, nil
}

func (s *GuestRequestService) notify(employeeID int64, message string) {
	err := s.notificationRepo.Create(&models.Notification{
		EmployeeID: employeeID,
		Message:    message,
	})
	if err != nil {
		s.logger.WithError(err).WithField("employee_id", employeeID).Warn("Failed to create notification")
	}
}

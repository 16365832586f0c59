package converter

import (
	"hospital-management/internal/delivery/dto"
	"hospital-management/internal/domain/entity"
)

func DeleteRequestToResponse(request *entity.DeleteRequest) *dto.DeleteRequestResponse {
	if request == nil {
		return nil
	}

	response := &dto.DeleteRequestResponse{
		ID:          request.ID,
		RequestedBy: request.RequestedBy,
		EntityType:  request.EntityType,
		EntityID:    request.EntityID,
		Reason:      request.Reason,
		Status:      string(request.Status),
		ReviewedBy:  request.ReviewedBy,
		ReviewedAt:  request.ReviewedAt,
		CreatedAt:   request.CreatedAt,
	}

	if request.Requester.ID == request.RequestedBy {
		response.RequesterName = request.Requester.FullName
	}

	return response
}

func DeleteRequestsToResponses(requests []entity.DeleteRequest) []dto.DeleteRequestResponse {
	responses := make([]dto.DeleteRequestResponse, len(requests))
	for i := range requests {
		responses[i] = *DeleteRequestToResponse(&requests[i])
	}
	return responses
}

func NotificationsToResponses(notifications []entity.Notification) []dto.NotificationResponse {
	responses := make([]dto.NotificationResponse, len(notifications))
	for i, n := range notifications {
		responses[i] = dto.NotificationResponse{
			ID:        n.ID,
			Title:     n.Title,
			Message:   n.Message,
			IsRead:    n.IsRead,
			CreatedAt: n.CreatedAt,
		}
	}
	return responses
}

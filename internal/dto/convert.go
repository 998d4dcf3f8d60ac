package dto

import (
	"picvote-server/internal/model"
	"picvote-server/internal/repository"
)

// ToImageResponse url 由存储驱动生成，调用方传入
func ToImageResponse(img *model.Image, url string) ImageResponse {
	return ImageResponse{
		ID:          img.ID,
		Description: img.Description,
		URL:         url,
		MimeType:    img.MimeType,
		Size:        img.Size,
		UserID:      img.UserID,
		Username:    img.User.Username,
		CreatedAt:   img.CreatedAt,
	}
}

func ToRankedImageResponse(r *repository.RankedImage, url string) RankedImageResponse {
	resp := RankedImageResponse{
		ImageResponse: ToImageResponse(&r.Image, url),
		AvgRate:       r.AvgRate,
		VoteCount:     r.VoteCount,
	}
	resp.Username = r.Username
	return resp
}

func ToCommentResponses(comments []model.Comment) []CommentResponse {
	out := make([]CommentResponse, 0, len(comments))
	for _, c := range comments {
		out = append(out, CommentResponse{
			ID:        c.ID,
			Text:      c.Text,
			UserID:    c.UserID,
			Username:  c.User.Username,
			CreatedAt: c.CreatedAt,
		})
	}
	return out
}

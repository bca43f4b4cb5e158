package services_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freeskill/internal/models"
	"freeskill/internal/services"
)

func addVideo(t *testing.T, s *stack, userID, courseID, videoID string) *models.Video {
	t.Helper()
	video, err := s.videos.Add(context.Background(), userID, courseID, services.VideoInput{
		VideoID:  videoID,
		Title:    "Video " + videoID,
		Duration: "PT10M",
	})
	require.NoError(t, err)
	return video
}

func TestAddVideoDefaultsOrder(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	alice := s.register(t, "alice")
	course := createCourse(t, s, alice.ID, "Go")

	first := addVideo(t, s, alice.ID, course.ID, "a")
	second := addVideo(t, s, alice.ID, course.ID, "b")
	assert.Equal(t, 1, first.Order)
	assert.Equal(t, 2, second.Order)

	pinned, err := s.videos.Add(ctx, alice.ID, course.ID, services.VideoInput{VideoID: "c", Title: "Intro", Order: 7})
	require.NoError(t, err)
	assert.Equal(t, 7, pinned.Order)

	_, err = s.videos.Add(ctx, alice.ID, course.ID, services.VideoInput{VideoID: "a", Title: "Again"})
	assertAppError(t, err, http.StatusConflict, "")
	_, err = s.videos.Add(ctx, alice.ID, course.ID, services.VideoInput{VideoID: "d"})
	assertAppError(t, err, http.StatusBadRequest, "")

	list, err := s.videos.List(ctx, alice.ID, course.ID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{list[0].VideoID, list[1].VideoID, list[2].VideoID})
}

func TestVideoProgressTracking(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	alice := s.register(t, "alice")
	course := createCourse(t, s, alice.ID, "Go")

	a := addVideo(t, s, alice.ID, course.ID, "a")
	b := addVideo(t, s, alice.ID, course.ID, "b")
	c := addVideo(t, s, alice.ID, course.ID, "c")

	done, err := s.videos.MarkCompleted(ctx, alice.ID, a.ID)
	require.NoError(t, err)
	assert.True(t, done.IsCompleted)

	progress, err := s.courses.Progress(ctx, alice.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CourseProgress{CourseID: course.ID, TotalVideos: 3, CompletedVideos: 1, Progress: 33}, progress)

	_, err = s.videos.MarkCompleted(ctx, alice.ID, b.ID)
	require.NoError(t, err)
	got, err := s.courses.Get(ctx, alice.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, 67, got.Progress)
	assert.False(t, got.IsCompleted)

	// Removing the only unwatched video completes the course.
	require.NoError(t, s.videos.Delete(ctx, alice.ID, c.ID))
	got, err = s.courses.Get(ctx, alice.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, got.Progress)
	assert.True(t, got.IsCompleted)
	assert.Contains(t, s.events.names(), services.EventCourseCompleted)

	undone, err := s.videos.MarkIncomplete(ctx, alice.ID, b.ID)
	require.NoError(t, err)
	assert.False(t, undone.IsCompleted)
	got, err = s.courses.Get(ctx, alice.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, got.Progress)
	assert.False(t, got.IsCompleted)
}

func TestVideoOwnership(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	alice := s.register(t, "alice")
	bob := s.register(t, "bob")
	course := createCourse(t, s, alice.ID, "Go")
	video := addVideo(t, s, alice.ID, course.ID, "a")

	_, err := s.videos.Add(ctx, bob.ID, course.ID, services.VideoInput{VideoID: "x", Title: "Sneaky"})
	assertAppError(t, err, http.StatusNotFound, "Course not found.")
	_, err = s.videos.List(ctx, bob.ID, course.ID)
	assertAppError(t, err, http.StatusNotFound, "")

	_, err = s.videos.Get(ctx, bob.ID, video.ID)
	assertAppError(t, err, http.StatusForbidden, "")
	assertAppError(t, s.videos.Delete(ctx, bob.ID, video.ID), http.StatusForbidden, "")
	_, err = s.videos.MarkCompleted(ctx, bob.ID, video.ID)
	assertAppError(t, err, http.StatusForbidden, "")

	_, err = s.videos.Get(ctx, alice.ID, "missing")
	assertAppError(t, err, http.StatusNotFound, "Video not found.")

	got, err := s.videos.Get(ctx, alice.ID, video.ID)
	require.NoError(t, err)
	assert.False(t, got.IsCompleted)
}

package seams

import (
	"fmt"
	"image"
	"image/jpeg"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
)

// PhotoStore fetches and stores profile photos. Dir is the directory
// served as /static; Client is used for the outbound image fetch.
type PhotoStore struct {
	Dir    string
	Client *http.Client
}

// UserUploadPhoto fetches a JPEG from imgURL, crops it to the given
// bounds ((0,0) is the top left) and makes it the caller's profile
// image.
func (s *Seams) UserUploadPhoto(tok, imgURL string, xStart, yStart, xEnd, yEnd int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	uid, err := s.authorize(tok)
	if err != nil {
		return err
	}
	if s.photos == nil {
		return fmt.Errorf("photo storage not configured")
	}

	resp, err := s.photos.Client.Get(imgURL)
	if err != nil {
		return NewInputError("could not retrieve image")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return NewInputError("img_url returned a non-200 status")
	}

	img, format, err := image.Decode(resp.Body)
	if err != nil {
		return NewInputError("could not decode image")
	}
	if format != "jpeg" {
		return NewInputError("image is not a jpeg")
	}

	bounds := img.Bounds()
	if xStart < 0 || yStart < 0 || xStart >= xEnd || yStart >= yEnd ||
		xEnd > bounds.Dx() || yEnd > bounds.Dy() {
		return NewInputError("invalid image dimensions")
	}

	cropped := cropImage(img, image.Rect(xStart, yStart, xEnd, yEnd))

	name := strconv.Itoa(uid) + ".jpg"
	path := filepath.Join(s.photos.Dir, name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	if err := jpeg.Encode(f, cropped, nil); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}

	snap := s.store.Get()
	snap.UserByID(uid).ProfileImgURL = "static/" + name
	s.store.Set(snap)

	return s.save()
}

func cropImage(img image.Image, rect image.Rectangle) image.Image {
	type subImager interface {
		SubImage(r image.Rectangle) image.Image
	}
	if si, ok := img.(subImager); ok {
		return si.SubImage(rect.Add(img.Bounds().Min))
	}

	out := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	for y := 0; y < rect.Dy(); y++ {
		for x := 0; x < rect.Dx(); x++ {
			out.Set(x, y, img.At(rect.Min.X+x, rect.Min.Y+y))
		}
	}
	return out
}

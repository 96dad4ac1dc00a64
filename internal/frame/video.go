package frame

import (
	"context"
	"fmt"

	"gocv.io/x/gocv"
)

// maxProbeFrames bounds how many leading frames are skipped looking for one
// that decodes.
const maxProbeFrames = 30

func loadVideo(ctx context.Context, path string) (*Frame, error) {
	vc, err := gocv.OpenVideoCapture(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open video: %w", err)
	}
	defer vc.Close()

	mat := gocv.NewMat()
	defer mat.Close()

	for i := 0; i < maxProbeFrames; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !vc.Read(&mat) {
			break
		}
		if mat.Empty() {
			continue
		}
		img, err := mat.ToImage()
		if err != nil {
			return nil, fmt.Errorf("failed to convert video frame: %w", err)
		}
		return &Frame{Path: path, Image: img, Video: true}, nil
	}
	return nil, fmt.Errorf("no decodable frame in %s", path)
}

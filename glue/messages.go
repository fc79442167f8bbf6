package glue

// Wire names for the multimodal message families.
const (
	InitMultimodalRequestName  = "imtm_req"
	InitMultimodalResponseName = "imtm_res"
	ProcessImageRequestName    = "proc_req"
	ProcessImageResponseName   = "proc_res"
)

// InitMultimodalRequest binds a vision projector to the loaded model.
type InitMultimodalRequest struct {
	MmprojPath  string `json:"mmproj_path"`
	UseGPU      bool   `json:"use_gpu"`
	NThreads    int    `json:"n_threads"`
	ImageMarker string `json:"image_marker"`
}

// InitMultimodalResponse reports the outcome of projector initialization.
type InitMultimodalResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// ProcessImageRequest runs one full image and prompt generation cycle.
// ImageData carries raw RGB pixels, DataSize the caller's declared byte
// count for them.
type ProcessImageRequest struct {
	ImageData []byte `json:"image_data"`
	DataSize  int    `json:"data_size"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Prompt    string `json:"prompt"`
	UseCache  bool   `json:"use_cache"`
}

// ProcessImageResponse carries the generated text or the failure reason.
type ProcessImageResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Result  string `json:"result"`
}

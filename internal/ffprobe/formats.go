package ffprobe

// formatInfo is what the demuxer registry knows beyond ffprobe's report.
type formatInfo struct {
	extensions string
	mimeTypes  string
}

// demuxers maps ffprobe's format_name to the demuxer's registered
// extensions and MIME types.
var demuxers = map[string]formatInfo{
	"mov,mp4,m4a,3gp,3g2,mj2": {
		extensions: "mov,mp4,m4a,3gp,3g2,mj2,psp,m4b,ism,ismv,isma,f4v,avif,heic,heif",
	},
	"matroska,webm": {
		extensions: "mkv,mk3d,mka,mks,webm",
		mimeTypes:  "audio/webm,audio/x-matroska,video/webm,video/x-matroska",
	},
	"avi":          {extensions: "avi"},
	"mpegts":       {extensions: "ts,m2t,m2ts,mts"},
	"mpeg":         {extensions: "mpg,mpeg,vob"},
	"flv":          {extensions: "flv"},
	"asf":          {extensions: "asf,wmv,wma"},
	"ogg":          {extensions: "ogg,oga,ogv,opus,spx", mimeTypes: "application/ogg,audio/ogg,video/ogg"},
	"mp3":          {extensions: "mp2,mp3,m2a,mpa"},
	"aac":          {extensions: "aac"},
	"ac3":          {extensions: "ac3"},
	"eac3":         {extensions: "eac3,ec3"},
	"dts":          {extensions: "dts"},
	"truehd":       {extensions: "thd"},
	"flac":         {extensions: "flac"},
	"wav":          {extensions: "wav"},
	"aiff":         {extensions: "aif,aiff,afc,aifc"},
	"w64":          {extensions: "w64"},
	"wv":           {extensions: "wv"},
	"ape":          {extensions: "ape,apl,mac"},
	"caf":          {extensions: "caf"},
	"srt":          {extensions: "srt"},
	"ass":          {extensions: "ass,ssa"},
	"webvtt":       {extensions: "vtt", mimeTypes: "text/vtt"},
	"sup":          {extensions: "sup"},
	"h264":         {extensions: "h264,264,avc"},
	"hevc":         {extensions: "hevc,h265,265"},
	"ivf":          {extensions: "ivf"},
	"obu":          {extensions: "obu"},
	"yuv4mpegpipe": {extensions: "y4m"},
	"hls":          {extensions: "m3u8", mimeTypes: "application/x-mpegurl,application/vnd.apple.mpegurl"},
	"dash":         {extensions: "mpd", mimeTypes: "application/dash+xml"},
	"mxf":          {extensions: "mxf"},
	"gif":          {extensions: "gif", mimeTypes: "image/gif"},
}

// lookupFormat returns the registry entry for a format name. Unknown
// demuxers yield empty lists.
func lookupFormat(name string) formatInfo {
	return demuxers[name]
}

package wordpress

// styleBlock is prepended to every published post so the renderer's
// news-card markup and post images look right without theme support.
const styleBlock = `<style>
    .post-image { max-width: 100%; height: auto; border-radius: 8px; margin: 20px 0; box-shadow: 0 4px 10px rgba(0,0,0,0.1); }
    .post-list { margin: 20px 0; padding-left: 20px; line-height: 1.8; }
    .post-list li { margin-bottom: 10px; }

    .news-container { display: flex; flex-direction: column; gap: 20px; margin: 30px 0; }
    .news-card {
        display: flex; background: #fff; border: 1px solid #eee; border-radius: 12px;
        overflow: hidden; transition: transform 0.2s; box-shadow: 0 2px 5px rgba(0,0,0,0.05);
    }
    .news-card:hover { transform: translateY(-3px); box-shadow: 0 5px 15px rgba(0,0,0,0.1); }
    .news-image { width: 150px; min-width: 150px; }
    .news-image img { width: 100%; height: 100%; object-fit: cover; }
    .news-body { padding: 15px; display: flex; flex-direction: column; justify-content: center; }
    .news-source { font-size: 0.8em; color: #ff4757; font-weight: bold; margin-bottom: 5px; text-transform: uppercase; }
    .news-title { margin: 0 0 10px 0; font-size: 1.1em; line-height: 1.4; }
    .news-title a { color: #2f3542; text-decoration: none; font-weight: 700; }
    .news-title a:hover { color: #ff4757; }
    .news-summary { font-size: 0.9em; color: #57606f; margin: 0; }

    @media (max-width: 600px) {
        .news-card { flex-direction: column; }
        .news-image { width: 100%; height: 180px; }
    }
</style>
`
